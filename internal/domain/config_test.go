package domain

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigURLAndArchiveName(t *testing.T) {
	cfg := DefaultConfig()

	wantURL := "https://downloads.sourceforge.net/project/opencvlibrary/4.1.2/opencv-4.1.2-android-sdk.zip"
	if got := cfg.DownloadURL(); got != wantURL {
		t.Fatalf("DownloadURL() = %q, want %q", got, wantURL)
	}
	if got := cfg.ArchiveName(); got != "opencv-4.1.2-android-sdk.zip" {
		t.Fatalf("ArchiveName() = %q", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestConfigArchiveNameIgnoresQuery(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URLTemplate = "https://example.com/{version}/sdk-{version}.zip?viasf=1"

	if got := cfg.ArchiveName(); got != "sdk-4.1.2.zip" {
		t.Fatalf("ArchiveName() = %q", got)
	}
}

func TestConfigPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir = filepath.Join("tmp", "work")

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"archive", cfg.ArchivePath(), filepath.Join("tmp", "work", "opencv-4.1.2-android-sdk.zip")},
		{"extracted", cfg.ExtractedPath(), filepath.Join("tmp", "work", "OpenCV-android-sdk")},
		{"sdk", cfg.SDKPath(), filepath.Join("tmp", "work", "OpenCV-android-sdk", "sdk")},
		{"module", cfg.ModulePath(), filepath.Join("tmp", "work", "opencv")},
		{"patch target", cfg.PatchTargetPath(), filepath.Join("tmp", "work", "opencv", "java", "src", "org", "opencv", "android", "JavaCameraView.java")},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s path = %q, want %q", c.name, c.got, c.want)
		}
	}
}

func TestConfigEmptyWorkDirIsCurrentDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir = ""
	if got := cfg.ModulePath(); got != "opencv" {
		t.Fatalf("ModulePath() = %q, want opencv", got)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SetupConfig)
		field  string
	}{
		{"empty version", func(c *SetupConfig) { c.Version = " " }, "version"},
		{"bad version", func(c *SetupConfig) { c.Version = "four" }, "version"},
		{"missing placeholder", func(c *SetupConfig) { c.URLTemplate = "https://example.com/sdk.zip" }, "url_template"},
		{"bad scheme", func(c *SetupConfig) { c.URLTemplate = "ftp://example.com/{version}/sdk.zip" }, "url_template"},
		{"no file name", func(c *SetupConfig) { c.URLTemplate = "https://example.com/{version}/" }, "url_template"},
		{"empty module dir", func(c *SetupConfig) { c.ModuleDir = "" }, "module_dir"},
		{"empty patch target", func(c *SetupConfig) { c.PatchTarget = "" }, "patch_target"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !IsKind(err, KindInvalidConfig) {
				t.Fatalf("expected invalid_config kind, got %v", err)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig in chain")
			}
			if !strings.Contains(err.Error(), "field "+c.field) {
				t.Fatalf("expected field %s in error, got %v", c.field, err)
			}
		})
	}
}
