package stardict

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/heartmarshall/dictforge/internal/dicterr"
)

// stardictRoot is the FreeDict download root. Tests override it to point
// at an httptest server.
var stardictRoot = "https://download.freedict.org/dictionaries"

// isoCodes maps a handful of canonical language names to the two/three
// letter codes FreeDict uses in its pair directory names. Unlisted
// languages fail pair-code resolution.
var isoCodes = map[string]string{
	"English":        "eng",
	"Serbian":        "srp",
	"Croatian":       "hrv",
	"Serbo-Croatian": "hbs",
	"Russian":        "rus",
	"German":         "deu",
	"French":         "fra",
	"Spanish":        "spa",
	"Italian":        "ita",
}

// IsoCode resolves a canonical language name to its FreeDict code.
func IsoCode(language string) (string, bool) {
	code, ok := isoCodes[language]
	return code, ok
}

// PairCode computes the "<src>-<tgt>" directory name FreeDict uses for a
// language pair.
func PairCode(srcLang, tgtLang string) (string, error) {
	src, ok := IsoCode(srcLang)
	if !ok {
		return "", &dicterr.DownloadError{Source: "stardict", URL: stardictRoot, Cause: fmt.Errorf("no ISO code known for %q", srcLang)}
	}
	tgt, ok := IsoCode(tgtLang)
	if !ok {
		return "", &dicterr.DownloadError{Source: "stardict", URL: stardictRoot, Cause: fmt.Errorf("no ISO code known for %q", tgtLang)}
	}
	return src + "-" + tgt, nil
}

var versionPattern = regexp.MustCompile(`^(\d+\.\d+(\.\d+)?|\d{4}\.\d{2}\.\d{2})$`)

// fallbackVersions is probed, in order, when the directory index for a
// pair cannot be listed or parsed.
var fallbackVersions = []string{"2023.10.10", "2022.10.10", "2021.07.04", "1.0"}

// DiscoverLatestVersion fetches the pair's directory index and returns the
// lexicographically greatest href matching versionPattern. If the listing
// cannot be fetched or parsed, it probes fallbackVersions in order and
// returns the first whose directory index can be listed, or
// fallbackVersions[0] if none can; the caller is responsible for verifying
// the chosen version actually hosts an archive.
func DiscoverLatestVersion(ctx context.Context, client *http.Client, pair string) (string, error) {
	url := stardictRoot + "/" + pair + "/"
	versions, err := listHrefVersions(ctx, client, url, versionPattern)
	if err != nil || len(versions) == 0 {
		for _, v := range fallbackVersions {
			if _, probeErr := listHrefs(ctx, client, url+v+"/"); probeErr == nil {
				return v, nil
			}
		}
		return fallbackVersions[0], nil
	}
	sort.Strings(versions)
	return versions[len(versions)-1], nil
}

// ResolveArchiveFilename parses the version directory index for *.tar.xz
// links, preferring names containing "stardict"; if listing fails, it
// probes a fixed list of filename templates with an HTTP HEAD request
// each, returning the first that responds 200.
func ResolveArchiveFilename(ctx context.Context, client *http.Client, pair, version string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/", stardictRoot, pair, version)
	hrefs, err := listHrefs(ctx, client, url)
	if err == nil {
		var candidates []string
		for _, h := range hrefs {
			if strings.HasSuffix(h, ".tar.xz") {
				candidates = append(candidates, h)
			}
		}
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c), "stardict") {
				return c, nil
			}
		}
		if len(candidates) > 0 {
			return candidates[0], nil
		}
	}

	for _, tmpl := range []string{
		"freedict-%s-%s.tar.xz",
		"%s-%s.tar.xz",
		"freedict-%s-%s-stardict.tar.xz",
	} {
		candidate := fmt.Sprintf(tmpl, pair, version)
		if headExists(ctx, client, url+candidate) {
			return candidate, nil
		}
	}
	return "", &dicterr.DownloadError{Source: "stardict", URL: url, Cause: fmt.Errorf("no archive filename could be resolved for %s/%s", pair, version)}
}

// headExists reports whether url responds 200 to an HTTP HEAD request.
func headExists(ctx context.Context, client *http.Client, url string) bool {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func listHrefs(ctx context.Context, client *http.Client, url string) ([]string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d listing %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseHrefs(string(body))
}

func listHrefVersions(ctx context.Context, client *http.Client, url string, pattern *regexp.Regexp) ([]string, error) {
	hrefs, err := listHrefs(ctx, client, url)
	if err != nil {
		return nil, err
	}
	var versions []string
	for _, h := range hrefs {
		h = strings.Trim(h, "/")
		if pattern.MatchString(h) {
			versions = append(versions, h)
		}
	}
	return versions, nil
}

// parseHrefs walks an HTML directory-index document and returns every
// anchor's href attribute.
func parseHrefs(body string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					hrefs = append(hrefs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hrefs, nil
}
