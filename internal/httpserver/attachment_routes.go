package httpserver

import (
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/slightknack/aeromessage/internal/config"
)

// AttachmentRoutes returns a sub-router serving attachment bytes by their
// path relative to the attachments root. HEIC and HEIF images are transcoded
// to JPEG through sips with an on-disk cache, since browsers cannot render
// them.
func AttachmentRoutes(cfg *config.Config) chi.Router {
	r := chi.NewRouter()

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		rel := chi.URLParam(r, "*")
		if rel == "" {
			http.Error(w, "missing attachment path", http.StatusBadRequest)
			return
		}

		full := filepath.Join(cfg.AttachmentsDir, filepath.FromSlash(rel))

		// Resolve symlinks before the containment check to block traversal.
		canonical, err := filepath.EvalSymlinks(full)
		if err != nil {
			http.Error(w, "attachment not found", http.StatusNotFound)
			return
		}
		base, err := filepath.EvalSymlinks(cfg.AttachmentsDir)
		if err != nil {
			http.Error(w, "attachments root unavailable", http.StatusInternalServerError)
			return
		}
		if canonical != base && !strings.HasPrefix(canonical, base+string(os.PathSeparator)) {
			http.Error(w, "access denied", http.StatusForbidden)
			return
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(canonical), "."))
		if ext == "heic" || ext == "heif" {
			if jpeg, ok := transcodeToJPEG(cfg.TranscodeCacheDir, rel, canonical); ok {
				http.ServeFile(w, r, jpeg)
				return
			}
			// Fall through and serve the original bytes.
		}

		http.ServeFile(w, r, canonical)
	})

	return r
}

// transcodeToJPEG converts a HEIC/HEIF file to JPEG via sips, caching the
// result under cacheDir keyed by the attachment's relative path.
func transcodeToJPEG(cacheDir, rel, src string) (string, bool) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		log.Printf("create transcode cache dir: %v", err)
		return "", false
	}

	key := strings.NewReplacer("/", "_", ".", "_").Replace(rel) + ".jpg"
	cached := filepath.Join(cacheDir, key)

	if _, err := os.Stat(cached); err != nil {
		cmd := exec.Command("sips",
			"-s", "format", "jpeg",
			"-s", "formatOptions", "80",
			src, "--out", cached)
		if out, err := cmd.CombinedOutput(); err != nil {
			log.Printf("sips transcode failed for %s: %v: %s", rel, err, strings.TrimSpace(string(out)))
			return "", false
		}
	}

	if _, err := os.Stat(cached); err != nil {
		return "", false
	}
	return cached, true
}
