package installer

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options describes the context-menu entries to generate.
type Options struct {
	// MenuLabel is the top-level context-menu group label.
	MenuLabel string
	// Extensions are container extensions (without dot) to register under.
	Extensions []string
	// Variants are the variant names offered as submenu entries.
	Variants []string
	// Executable is the absolute path of the reel binary the menu invokes.
	Executable string
}

const header = "Windows Registry Editor Version 5.00"

var titleCaser = cases.Title(language.English)

// thumbsEntryLabel is the fixed submenu label for the contact-sheet verb.
const thumbsEntryLabel = "Thumbnails"

// InstallDocument renders a .reg document registering one submenu entry per
// variant under every recognized extension, plus a contact-sheet entry. The
// variant command lines invoke `reel run --variant <name>` with the selected
// file; the sheet entry invokes `reel thumbs`. Output is deterministic for a
// fixed set of options.
func InstallDocument(opts Options) (string, error) {
	if err := validate(opts, true); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(header + "\n\n")
	for _, ext := range opts.Extensions {
		group := associationKey(ext, opts.MenuLabel)
		fmt.Fprintf(&b, "[%s]\n", group)
		fmt.Fprintf(&b, "\"MUIVerb\"=\"%s\"\n", regEscape(opts.MenuLabel))
		b.WriteString("\"SubCommands\"=\"\"\n\n")
		fmt.Fprintf(&b, "[%s\\shell]\n\n", group)

		for _, variant := range opts.Variants {
			entry := group + "\\shell\\" + variant
			fmt.Fprintf(&b, "[%s]\n", entry)
			fmt.Fprintf(&b, "\"MUIVerb\"=\"%s\"\n\n", regEscape(MenuEntryLabel(variant)))
			fmt.Fprintf(&b, "[%s\\command]\n", entry)
			fmt.Fprintf(&b, "@=\"%s\"\n\n", regEscape(commandLine(opts.Executable, variant)))
		}

		entry := group + "\\shell\\thumbs"
		fmt.Fprintf(&b, "[%s]\n", entry)
		fmt.Fprintf(&b, "\"MUIVerb\"=\"%s\"\n\n", thumbsEntryLabel)
		fmt.Fprintf(&b, "[%s\\command]\n", entry)
		fmt.Fprintf(&b, "@=\"%s\"\n\n", regEscape(thumbsCommandLine(opts.Executable)))
	}
	return b.String(), nil
}

// UninstallDocument renders the deletion form removing the whole menu group
// from every recognized extension.
func UninstallDocument(opts Options) (string, error) {
	if err := validate(opts, false); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(header + "\n\n")
	for _, ext := range opts.Extensions {
		fmt.Fprintf(&b, "[-%s]\n\n", associationKey(ext, opts.MenuLabel))
	}
	return b.String(), nil
}

// MenuEntryLabel derives the human-readable submenu label for a variant name.
func MenuEntryLabel(variant string) string {
	return titleCaser.String(strings.ReplaceAll(variant, "-", " "))
}

func validate(opts Options, needExecutable bool) error {
	if strings.TrimSpace(opts.MenuLabel) == "" {
		return errors.New("menu label required")
	}
	if len(opts.Extensions) == 0 {
		return errors.New("at least one extension required")
	}
	if len(opts.Variants) == 0 && needExecutable {
		return errors.New("at least one variant required")
	}
	if needExecutable && strings.TrimSpace(opts.Executable) == "" {
		return errors.New("executable path required")
	}
	return nil
}

func associationKey(ext, label string) string {
	return fmt.Sprintf("HKEY_CLASSES_ROOT\\SystemFileAssociations\\.%s\\shell\\%s", ext, label)
}

func commandLine(executable, variant string) string {
	return fmt.Sprintf("\"%s\" run --variant \"%s\" \"%%1\"", executable, variant)
}

func thumbsCommandLine(executable string) string {
	return fmt.Sprintf("\"%s\" thumbs \"%%1\"", executable)
}

func regEscape(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	return strings.ReplaceAll(value, "\"", "\\\"")
}
