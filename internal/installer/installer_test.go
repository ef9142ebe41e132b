package installer_test

import (
	"strings"
	"testing"

	"reel/internal/installer"
)

var testOptions = installer.Options{
	MenuLabel:  "Reel Converter",
	Extensions: []string{"avi", "mp4"},
	Variants:   []string{"h265-8000k", "h264-24000k"},
	Executable: `C:\tools\reel.exe`,
}

func TestInstallDocumentStructure(t *testing.T) {
	doc, err := installer.InstallDocument(testOptions)
	if err != nil {
		t.Fatalf("InstallDocument: %v", err)
	}

	if !strings.HasPrefix(doc, "Windows Registry Editor Version 5.00\n") {
		t.Fatalf("missing registry header:\n%s", doc)
	}
	for _, want := range []string{
		`[HKEY_CLASSES_ROOT\SystemFileAssociations\.avi\shell\Reel Converter]`,
		`[HKEY_CLASSES_ROOT\SystemFileAssociations\.mp4\shell\Reel Converter]`,
		`"SubCommands"=""`,
		`[HKEY_CLASSES_ROOT\SystemFileAssociations\.avi\shell\Reel Converter\shell\h265-8000k]`,
		`"MUIVerb"="H265 8000K"`,
		`[HKEY_CLASSES_ROOT\SystemFileAssociations\.avi\shell\Reel Converter\shell\h265-8000k\command]`,
		`@="\"C:\\tools\\reel.exe\" run --variant \"h265-8000k\" \"%1\""`,
		`[HKEY_CLASSES_ROOT\SystemFileAssociations\.avi\shell\Reel Converter\shell\thumbs]`,
		`"MUIVerb"="Thumbnails"`,
		`@="\"C:\\tools\\reel.exe\" thumbs \"%1\""`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
	}
}

func TestInstallDocumentIsDeterministic(t *testing.T) {
	first, err := installer.InstallDocument(testOptions)
	if err != nil {
		t.Fatalf("InstallDocument: %v", err)
	}
	second, err := installer.InstallDocument(testOptions)
	if err != nil {
		t.Fatalf("InstallDocument: %v", err)
	}
	if first != second {
		t.Fatal("expected byte-identical output for identical options")
	}
}

func TestUninstallDocumentDeletesGroups(t *testing.T) {
	doc, err := installer.UninstallDocument(testOptions)
	if err != nil {
		t.Fatalf("UninstallDocument: %v", err)
	}
	for _, want := range []string{
		`[-HKEY_CLASSES_ROOT\SystemFileAssociations\.avi\shell\Reel Converter]`,
		`[-HKEY_CLASSES_ROOT\SystemFileAssociations\.mp4\shell\Reel Converter]`,
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "command") {
		t.Fatalf("uninstall document should not define commands:\n%s", doc)
	}
}

func TestMenuEntryLabel(t *testing.T) {
	if got := installer.MenuEntryLabel("h264-24000k"); got != "H264 24000K" {
		t.Fatalf("MenuEntryLabel = %q", got)
	}
}

func TestValidation(t *testing.T) {
	opts := testOptions
	opts.Executable = ""
	if _, err := installer.InstallDocument(opts); err == nil {
		t.Fatal("expected error for missing executable")
	}

	opts = testOptions
	opts.Extensions = nil
	if _, err := installer.UninstallDocument(opts); err == nil {
		t.Fatal("expected error for missing extensions")
	}
}
