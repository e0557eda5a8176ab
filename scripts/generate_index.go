// Command generate_index renders README.md into index.html for the release
// download page, replacing the Installation section with links to the
// archives found in the dist directory.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var archivePattern = regexp.MustCompile(`^gridcol_([^_]+(?:-[^_]+)*)_(Darwin|Linux|Windows)_(arm64|x86_64)\.(?:tar\.gz|zip)$`)

var platformNames = map[string]string{
	"Darwin_arm64":   "macOS (Apple Silicon)",
	"Darwin_x86_64":  "macOS (Intel)",
	"Linux_arm64":    "Linux (ARM64)",
	"Linux_x86_64":   "Linux (x86_64)",
	"Windows_arm64":  "Windows (ARM64)",
	"Windows_x86_64": "Windows (x86_64)",
}

type download struct {
	Platform string
	Archive  string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	if err := run("README.md", os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(readmePath, distDir string) error {
	readme, err := os.ReadFile(readmePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", readmePath, err)
	}
	entries, err := os.ReadDir(distDir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", distDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}

	version, downloads := scanArchives(names)
	page := renderPage(readme, version, downloads)

	indexPath := filepath.Join(distDir, "index.html")
	if err := os.WriteFile(indexPath, page, 0o644); err != nil { //nolint:gosec // published page
		return err
	}
	fmt.Fprintf(os.Stderr, "Generated %s\n", indexPath)
	return nil
}

// scanArchives returns the release version and one download per platform,
// sorted by platform name. Checksums and other files are skipped.
func scanArchives(names []string) (string, []download) {
	version := "unknown"
	seen := map[string]bool{}
	var out []download
	for _, name := range names {
		m := archivePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if version == "unknown" {
			version = m[1]
		}
		key := m[2] + "_" + m[3]
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, download{Platform: platformNames[key], Archive: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return version, out
}

func renderPage(readme []byte, version string, downloads []download) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	body := markdown.Render(p.Parse(readme), renderer)
	body = replaceInstallation(body, downloadsHTML(version, downloads))

	var b bytes.Buffer
	b.WriteString(pageHeader)
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}

func downloadsHTML(version string, downloads []download) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<div class=\"downloads\">\n  <h3>%s</h3>\n  <table class=\"download-table\">\n", version)
	for _, d := range downloads {
		fmt.Fprintf(&sb, "    <tr><td class=\"platform-name\">%s</td><td><a href=\"%s\">download</a></td></tr>\n", d.Platform, d.Archive)
	}
	sb.WriteString("  </table>\n</div>\n")
	return sb.String()
}

// replaceInstallation swaps the body of the Installation section, up to the
// next h2, for the downloads table. Pages without that section are unchanged.
func replaceInstallation(page []byte, downloads string) []byte {
	s := string(page)
	start := strings.Index(s, `<h2 id="installation">`)
	if start == -1 {
		return page
	}
	rest := s[start+1:]
	next := strings.Index(rest, "<h2 ")
	if next == -1 {
		return page
	}
	next += start + 1
	return []byte(s[:start] + "<h2 id=\"installation\">Installation</h2>\n\n" + downloads +
		"\n<p>Extract the archive and move <code>gridcol</code> onto your PATH.</p>\n\n" + s[next:])
}

const pageHeader = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>gridcol - grid columns from metadata</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #333; }
    h1 { color: #2563eb; border-bottom: 2px solid #2563eb; padding-bottom: 10px; }
    code { background: #f1f5f9; padding: 2px 6px; border-radius: 3px; font-family: Monaco, Menlo, monospace; font-size: 0.9em; }
    pre { background: #1e293b; color: #e2e8f0; padding: 16px; border-radius: 6px; overflow-x: auto; }
    pre code { background: none; color: inherit; padding: 0; }
    .downloads { background: #eff6ff; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #2563eb; }
    .download-table td { padding: 6px 8px; }
    .platform-name { font-weight: 500; color: #1e3a8a; width: 200px; }
  </style>
</head>
<body>
`
