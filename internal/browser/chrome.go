package browser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// BrowserKind identifies the type of Chromium-based browser.
type BrowserKind string

const (
	BrowserChrome   BrowserKind = "chrome"
	BrowserBrave    BrowserKind = "brave"
	BrowserEdge     BrowserKind = "edge"
	BrowserChromium BrowserKind = "chromium"
	BrowserCustom   BrowserKind = "custom"
)

// BrowserExecutable is a browser binary found on the system.
type BrowserExecutable struct {
	Kind BrowserKind
	Path string
}

type candidate struct {
	kind BrowserKind
	path string
}

// executableCandidates lists well-known install locations per platform.
func executableCandidates(goos, home string) []candidate {
	switch goos {
	case "darwin":
		return []candidate{
			{BrowserChrome, "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"},
			{BrowserChrome, filepath.Join(home, "Applications/Google Chrome.app/Contents/MacOS/Google Chrome")},
			{BrowserBrave, "/Applications/Brave Browser.app/Contents/MacOS/Brave Browser"},
			{BrowserEdge, "/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge"},
			{BrowserChromium, "/Applications/Chromium.app/Contents/MacOS/Chromium"},
		}
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		return []candidate{
			{BrowserChrome, `C:\Program Files\Google\Chrome\Application\chrome.exe`},
			{BrowserChrome, `C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`},
			{BrowserChrome, filepath.Join(local, `Google\Chrome\Application\chrome.exe`)},
			{BrowserEdge, `C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`},
			{BrowserBrave, `C:\Program Files\BraveSoftware\Brave-Browser\Application\brave.exe`},
		}
	default:
		return []candidate{
			{BrowserChrome, "/usr/bin/google-chrome"},
			{BrowserChrome, "/usr/bin/google-chrome-stable"},
			{BrowserChromium, "/usr/bin/chromium"},
			{BrowserChromium, "/usr/bin/chromium-browser"},
			{BrowserChromium, "/snap/bin/chromium"},
			{BrowserBrave, "/usr/bin/brave-browser"},
			{BrowserEdge, "/usr/bin/microsoft-edge"},
		}
	}
}

// pathNames are looked up on PATH when no well-known location exists.
var pathNames = []candidate{
	{BrowserChrome, "google-chrome"},
	{BrowserChrome, "google-chrome-stable"},
	{BrowserChromium, "chromium"},
	{BrowserChromium, "chromium-browser"},
	{BrowserBrave, "brave-browser"},
	{BrowserEdge, "microsoft-edge"},
}

// FindChromeExecutable locates a Chromium-based browser. A custom path must
// exist. It returns nil when nothing is installed.
func FindChromeExecutable(fs afero.Fs, customPath string) (*BrowserExecutable, error) {
	if customPath != "" {
		if !fileExists(fs, customPath) {
			return nil, fmt.Errorf("browser executable not found: %s", customPath)
		}
		return &BrowserExecutable{Kind: BrowserCustom, Path: customPath}, nil
	}

	home, _ := os.UserHomeDir()
	for _, c := range executableCandidates(runtime.GOOS, home) {
		if fileExists(fs, c.path) {
			return &BrowserExecutable{Kind: c.kind, Path: c.path}, nil
		}
	}

	if _, ok := fs.(*afero.OsFs); ok {
		for _, c := range pathNames {
			if p, err := exec.LookPath(c.path); err == nil {
				return &BrowserExecutable{Kind: c.kind, Path: p}, nil
			}
		}
	}
	return nil, nil
}

// LaunchArgs are the flags a browser needs to be usable by this tool.
func LaunchArgs(cfg Config) []string {
	cfg = cfg.normalize()
	return []string{
		fmt.Sprintf("--remote-debugging-port=%d", cfg.CDPPort),
		fmt.Sprintf("--user-data-dir=%s", cfg.UserDataDir),
		"--no-first-run",
		"--no-default-browser-check",
		"--disable-default-apps",
		"--disable-popup-blocking",
		"--disable-features=Translate",
		cfg.TargetURL,
	}
}

// LaunchGuidance renders the command a user should run to start the browser.
// Nothing is executed.
func LaunchGuidance(fs afero.Fs, cfg Config) string {
	cfg = cfg.normalize()

	exe := "<chrome>"
	found, err := FindChromeExecutable(fs, cfg.ExecutablePath)
	switch {
	case err != nil:
		exe = cfg.ExecutablePath
	case found != nil:
		exe = found.Path
	}

	var b strings.Builder
	fmt.Fprintf(&b, "No browser is answering on port %d.\n", cfg.CDPPort)
	if found == nil {
		b.WriteString("No Chromium-based browser was found; install one or set browser_path.\n")
	}
	b.WriteString("Start one with remote debugging enabled:\n\n  ")
	b.WriteString(shellQuote(exe))
	for _, arg := range LaunchArgs(cfg) {
		b.WriteString(" ")
		b.WriteString(shellQuote(arg))
	}
	b.WriteString("\n")
	return b.String()
}

func shellQuote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t'\"()&;") {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return s
}

func fileExists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
