package media

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/atlas-backend/storefront/app/api"
	"github.com/atlas-backend/storefront/app/storage"
)

type MediaHandler struct {
	blobs storage.BlobStore
}

func NewMediaHandler(blobs storage.BlobStore) *MediaHandler {
	return &MediaHandler{blobs: blobs}
}

// HandleGet streams the blob named by the {key...} path wildcard.
func (h *MediaHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	rc, err := h.blobs.Get(r.Context(), key)
	switch {
	case errors.Is(err, storage.ErrBlobNotFound):
		api.ErrorResponse(w, http.StatusNotFound, "media not found")
		return
	case errors.Is(err, storage.ErrInvalidKey):
		api.ErrorResponse(w, http.StatusBadRequest, "invalid media key")
		return
	case err != nil:
		api.HandleError(w, err, "failed to read media")
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, rc); err != nil {
		api.Logger.Warn().Err(err).Str("key", key).Msg("media copy aborted")
	}
}
