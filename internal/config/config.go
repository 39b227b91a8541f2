// Package config loads the assembly core's external configuration object:
// the input/output languages, cache and output directories, and the
// assembly knobs recognized by the core's configuration interface.
package config

import "fmt"

// Config is the configuration object consumed by the Assembler. Every
// field corresponds to a recognized option of the core's external
// configuration interface.
type Config struct {
	InLang       string   `yaml:"in_lang"        env:"DICTFORGE_IN_LANG"`
	OutLang      string   `yaml:"out_lang"       env:"DICTFORGE_OUT_LANG"       env-default:"English"`
	ExtraInLangs []string `yaml:"extra_in_langs" env:"DICTFORGE_EXTRA_IN_LANGS" env-separator:","`

	Title     string `yaml:"title"     env:"DICTFORGE_TITLE"`
	Shortname string `yaml:"shortname" env:"DICTFORGE_SHORTNAME"`

	OutDir   string `yaml:"outdir"    env:"DICTFORGE_OUTDIR"    env-default:"./out"`
	CacheDir string `yaml:"cache_dir" env:"DICTFORGE_CACHE_DIR" env-default:"./cache"`

	KindleLangOverride string `yaml:"kindle_lang_override" env:"DICTFORGE_KINDLE_LANG_OVERRIDE"`

	IncludePOS        bool `yaml:"include_pos"         env:"DICTFORGE_INCLUDE_POS"         env-default:"false"`
	TryFixInflections bool `yaml:"try_fix_inflections" env:"DICTFORGE_TRY_FIX_INFLECTIONS" env-default:"false"`
	MaxEntries        int  `yaml:"max_entries"         env:"DICTFORGE_MAX_ENTRIES"         env-default:"0"`

	Log LogConfig `yaml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Validate checks that the required configuration fields are present.
func (c *Config) Validate() error {
	if c.InLang == "" {
		return fmt.Errorf("config: in_lang is required")
	}
	if c.OutLang == "" {
		return fmt.Errorf("config: out_lang is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("config: outdir is required")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("config: cache_dir is required")
	}
	return nil
}
