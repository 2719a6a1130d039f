package domain

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionPlaceholder is substituted with SetupConfig.Version in the URL template.
const VersionPlaceholder = "{version}"

// SetupConfig holds the fixed parameters of one setup run. It is built once at
// startup and passed by value; nothing mutates it afterwards.
type SetupConfig struct {
	// OpenCV release to download.
	Version string
	// Download location, with VersionPlaceholder standing in for Version.
	URLTemplate string

	// Top-level directory every entry of a supported archive lives under.
	BaseDir string
	// Subdirectory of BaseDir that becomes the module directory.
	SDKSubdir string
	// Module directory consumed by the Android build.
	ModuleDir string
	// Slash-separated path of the Android package inside the module directory.
	AndroidSrcDir string
	// Source file inside AndroidSrcDir that gets patched.
	PatchTarget string

	// Directory all paths above are relative to.
	WorkDir string
}

// DefaultConfig returns the configuration for the supported OpenCV release.
func DefaultConfig() SetupConfig {
	return SetupConfig{
		Version:       "4.1.2",
		URLTemplate:   "https://downloads.sourceforge.net/project/opencvlibrary/{version}/opencv-{version}-android-sdk.zip",
		BaseDir:       "OpenCV-android-sdk",
		SDKSubdir:     "sdk",
		ModuleDir:     "opencv",
		AndroidSrcDir: "java/src/org/opencv/android",
		PatchTarget:   "JavaCameraView.java",
		WorkDir:       ".",
	}
}

// Validate reports the first problem that would make the pipeline unusable.
func (c SetupConfig) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"version", c.Version},
		{"url_template", c.URLTemplate},
		{"base_dir", c.BaseDir},
		{"sdk_subdir", c.SDKSubdir},
		{"module_dir", c.ModuleDir},
		{"android_src_dir", c.AndroidSrcDir},
		{"patch_target", c.PatchTarget},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalidConfig(r.field, "value is required")
		}
	}

	if _, err := semver.NewVersion(c.Version); err != nil {
		return invalidConfig("version", err.Error())
	}
	if !strings.Contains(c.URLTemplate, VersionPlaceholder) {
		return invalidConfig("url_template", "missing "+VersionPlaceholder+" placeholder")
	}

	u, err := url.Parse(c.DownloadURL())
	if err != nil {
		return invalidConfig("url_template", err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalidConfig("url_template", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return invalidConfig("url_template", "url has no file name")
	}
	return nil
}

// DownloadURL is the fully-qualified archive URL for Version.
func (c SetupConfig) DownloadURL() string {
	return strings.ReplaceAll(c.URLTemplate, VersionPlaceholder, c.Version)
}

// ArchiveName is the last path segment of DownloadURL.
func (c SetupConfig) ArchiveName() string {
	raw := c.DownloadURL()
	if u, err := url.Parse(raw); err == nil {
		raw = u.Path
	}
	return path.Base(raw)
}

func (c SetupConfig) ArchivePath() string {
	return filepath.Join(c.workDir(), c.ArchiveName())
}

func (c SetupConfig) ExtractedPath() string {
	return filepath.Join(c.workDir(), c.BaseDir)
}

func (c SetupConfig) SDKPath() string {
	return filepath.Join(c.ExtractedPath(), c.SDKSubdir)
}

func (c SetupConfig) ModulePath() string {
	return filepath.Join(c.workDir(), c.ModuleDir)
}

// PatchTargetPath is the file rewritten by the patch stage.
func (c SetupConfig) PatchTargetPath() string {
	return filepath.Join(c.ModulePath(), filepath.FromSlash(c.AndroidSrcDir), c.PatchTarget)
}

func (c SetupConfig) workDir() string {
	if strings.TrimSpace(c.WorkDir) == "" {
		return "."
	}
	return c.WorkDir
}

func invalidConfig(field, msg string) error {
	return &OpError{
		Op:   "config.validate",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, ErrInvalidConfig),
	}
}
