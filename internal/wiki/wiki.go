// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wiki adapts raw converter output to Azure DevOps Wiki
// conventions: extracted media is relocated into the shared
// .attachments folder at the wiki root and image links in the Markdown
// are rewritten to the wiki's absolute /.attachments/<file> form.
//
// A relocated file that collides with an existing attachment overwrites
// it, mirroring how repeated conversions of the same document refresh
// their images.
//
// Link rewriting is a text-pattern scan over Markdown image syntax, not
// a full document parse. That keeps it robust against exporter-specific
// Markdown quirks; a link that does not match the image pattern is left
// untouched.
package wiki

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// AttachmentsDirName is the fixed-name folder at the wiki root that
// holds every image referenced by wiki pages.
const AttachmentsDirName = ".attachments"

var (
	// imageLinkRe matches Markdown image syntax ![alt](target) and
	// ![alt](target "title"). Target capture stops at whitespace or ')'.
	imageLinkRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)

	// attrBlockRe matches a pandoc attribute block immediately after an
	// image link, e.g. ![](img.png){width="4in" height="2in"}.
	attrBlockRe = regexp.MustCompile(`(!\[[^\]]*\]\([^)]*\))\{[^}]*\}`)
)

// Process relocates the media folder into <wikiRoot>/.attachments/ and
// rewrites the Markdown in place. It returns the relocated attachment
// paths. Re-running on an already-processed file is a no-op: the media
// folder is empty or gone and the links are already in target form.
//
// On failure the media folder is never deleted; files moved before the
// failure stay in .attachments so partial state remains visible.
func Process(markdownPath, mediaDir, wikiRoot string) ([]string, error) {
	attachDir := filepath.Join(wikiRoot, AttachmentsDirName)
	if err := os.MkdirAll(attachDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating attachments folder %s: %w", attachDir, err)
	}

	moved, err := relocate(mediaDir, attachDir)
	if err != nil {
		return moved, err
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return moved, fmt.Errorf("reading markdown %s: %w", markdownPath, err)
	}

	rewritten := RewriteLinks(string(content), mediaDir)
	if rewritten != string(content) {
		if err := os.WriteFile(markdownPath, []byte(rewritten), 0o644); err != nil {
			return moved, fmt.Errorf("writing markdown %s: %w", markdownPath, err)
		}
	}

	// Drop the emptied media folder. Best effort: a leftover non-empty
	// folder is harmless and stays visible.
	os.Remove(mediaDir)

	return moved, nil
}

// relocate moves every regular file under mediaDir (including nested
// folders) into attachDir, overwriting existing files of the same name.
// A missing mediaDir means nothing to move.
func relocate(mediaDir, attachDir string) ([]string, error) {
	var moved []string

	err := filepath.WalkDir(mediaDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == mediaDir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		dest := filepath.Join(attachDir, d.Name())
		if err := moveFile(p, dest); err != nil {
			return fmt.Errorf("moving %s to %s: %w", p, dest, err)
		}
		moved = append(moved, dest)
		return nil
	})
	if err != nil {
		return moved, err
	}

	// Remove now-empty nested folders, deepest first. Best effort.
	removeEmptyDirs(mediaDir)

	return moved, nil
}

// moveFile renames src to dest, falling back to copy-and-delete when
// rename fails (cross-device moves, or platforms where rename does not
// replace an existing destination).
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// removeEmptyDirs removes empty subdirectories below root, deepest first.
func removeEmptyDirs(root string) {
	var dirs []string
	filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() && p != root {
			dirs = append(dirs, p)
		}
		return nil
	})
	for i := len(dirs) - 1; i >= 0; i-- {
		os.Remove(dirs[i])
	}
}

// RewriteLinks rewrites every Markdown image link whose target points
// into mediaDir to the /.attachments/<filename> form Azure DevOps Wiki
// resolves against the wiki root. Links already in target form and
// links pointing elsewhere are untouched, so the rewrite is idempotent.
// Pandoc attribute blocks after image links are stripped.
func RewriteLinks(content, mediaDir string) string {
	rewritten := imageLinkRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := imageLinkRe.FindStringSubmatch(m)
		alt, target := sub[1], sub[2]
		if !pointsIntoMedia(target, mediaDir) {
			return m
		}
		return fmt.Sprintf("![%s](/%s/%s)", alt, AttachmentsDirName, path.Base(normalizeSlashes(target)))
	})
	return attrBlockRe.ReplaceAllString(rewritten, "$1")
}

// pointsIntoMedia reports whether a link target refers to a file inside
// the converter's media folder, in absolute form, in the relative
// media/ form, or in the nested media/media/ form pandoc emits before
// hoisting.
func pointsIntoMedia(target, mediaDir string) bool {
	t := normalizeSlashes(target)
	if strings.HasPrefix(t, "/"+AttachmentsDirName+"/") {
		return false
	}
	if strings.HasPrefix(t, "media/") {
		return true
	}
	md := normalizeSlashes(mediaDir)
	return md != "" && strings.HasPrefix(t, md+"/")
}

func normalizeSlashes(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
