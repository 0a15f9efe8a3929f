package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string       `json:"status"` // "ready", "warnings", "errors"
	CheckedAt   string       `json:"checked_at"`
	WKHTMLToPDF rendererInfo `json:"wkhtmltopdf"`
	Chrome      rendererInfo `json:"chrome"`
	Env         envInfo      `json:"environment"`
	System      systemInfo   `json:"system"`
	Warnings    []string     `json:"warnings,omitempty"`
	Errors      []string     `json:"errors,omitempty"`
}

// rendererInfo holds detection results for one HTML-to-PDF backend.
type rendererInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	BrowserBin string `json:"rod_browser_bin,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()
	result.CheckedAt = env.Now().UTC().Format(time.RFC3339)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkWKHTMLToPDF(result)
	checkChrome(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkWKHTMLToPDF detects the wkhtmltopdf binary on the PATH. The default
// renderer is a hard requirement; its absence is an error even when Chrome
// is installed.
func checkWKHTMLToPDF(result *doctorResult) {
	path, err := exec.LookPath("wkhtmltopdf")
	if err != nil {
		result.Errors = append(result.Errors,
			"wkhtmltopdf not found on PATH. Install it from https://wkhtmltopdf.org/downloads.html")
		return
	}

	result.WKHTMLToPDF.Found = true
	result.WKHTMLToPDF.Path = path

	out, err := exec.Command(path, "--version").Output()
	if err == nil {
		result.WKHTMLToPDF.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get wkhtmltopdf version: %v", err))
	}
}

// checkChrome detects a Chrome/Chromium installation for the chrome backend.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found (only needed for --renderer chrome)")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	}
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "nb2gradescope-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintf(w, "nb2gradescope doctor (checked at %s)\n", r.CheckedAt)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "wkhtmltopdf")
	printRenderer(w, r.WKHTMLToPDF)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	printRenderer(w, r.Chrome)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printRenderer prints one backend's detection results.
func printRenderer(w io.Writer, info rendererInfo) {
	if info.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", info.Path)
		if info.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", info.Version)
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
}
