// Package installer renders the declarative file-manager integration: .reg
// documents that add (or remove) a context-menu group invoking reel per
// configured encode variant, plus a contact-sheet entry. The documents are
// plain text for the user to apply; nothing here touches a live registry.
package installer
