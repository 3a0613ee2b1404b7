package videos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/tubely-service/internal/apperr"
	"github.com/princekumarofficial/tubely-service/internal/assets"
	"github.com/princekumarofficial/tubely-service/internal/events"
	"github.com/princekumarofficial/tubely-service/internal/http/middleware"
	"github.com/princekumarofficial/tubely-service/internal/media"
	"github.com/princekumarofficial/tubely-service/internal/metrics"
	"github.com/princekumarofficial/tubely-service/internal/storage"
	"github.com/princekumarofficial/tubely-service/internal/types/video"
	"github.com/princekumarofficial/tubely-service/internal/utils/response"
)

const (
	// slack for multipart boundaries and headers on top of the file limit
	multipartOverhead = 1 << 20

	// form parts above this are spooled to temp files by net/http
	thumbnailMemory = 10 << 20
	videoMemory     = 32 << 20
)

const (
	thumbnailTypes = "image/png image/jpeg"
	videoTypes     = "video/mp4"
)

// Limits caps the size of each uploaded file.
type Limits struct {
	Thumbnail int64
	Video     int64
}

var DefaultLimits = Limits{
	Thumbnail: 10 << 20,
	Video:     1 << 30,
}

// Store is the part of storage.Storage the handlers need.
type Store interface {
	GetVideo(ctx context.Context, id string) (video.Video, error)
	UpdateVideo(ctx context.Context, v video.Video) error
}

type Handlers struct {
	store      Store
	sink       assets.Sink
	prober     media.Prober
	repackager media.Repackager
	publisher  events.Publisher
	stagingDir string
	limits     Limits
	validate   *validator.Validate
}

// NewHandlers wires the upload handlers to their collaborators. A nil
// publisher discards events.
func NewHandlers(store Store, sink assets.Sink, prober media.Prober, repackager media.Repackager,
	publisher events.Publisher, stagingDir string, limits Limits) *Handlers {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Handlers{
		store:      store,
		sink:       sink,
		prober:     prober,
		repackager: repackager,
		publisher:  publisher,
		stagingDir: stagingDir,
		limits:     limits,
		validate:   validator.New(),
	}
}

// UploadThumbnail stores a new thumbnail for a video and points the record at it
// @Summary Upload a thumbnail
// @Description Replaces the thumbnail of a video owned by the caller. Accepts image/png or image/jpeg up to 10 MiB.
// @Tags videos
// @Accept mpfd
// @Produce json
// @Param videoId path string true "Video ID"
// @Param thumbnail formData file true "Thumbnail image"
// @Success 200 {object} video.Video "Updated video record"
// @Failure 400 {object} response.Response "Invalid video ID or file"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Not the owner of the video"
// @Failure 404 {object} response.Response "Video not found"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /api/videos/{videoId}/thumbnail [post]
func (h *Handlers) UploadThumbnail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		videoID := r.PathValue("videoId")
		if err := h.validate.Var(videoID, "required,max=255"); err != nil {
			h.fail(w, assets.KindThumbnail, apperr.BadRequest("Invalid video ID", err))
			return
		}

		userID, ok := middleware.GetUserIDFromContext(ctx)
		if !ok {
			h.fail(w, assets.KindThumbnail, apperr.Unauthorized("user not authenticated", nil))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.limits.Thumbnail+multipartOverhead)
		if err := r.ParseMultipartForm(thumbnailMemory); err != nil {
			h.fail(w, assets.KindThumbnail, formError(err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("thumbnail")
		if err != nil {
			h.fail(w, assets.KindThumbnail, apperr.BadRequest("Unable to parse form file", err))
			return
		}
		defer file.Close()

		mediaType, err := h.checkFile(header, thumbnailTypes, h.limits.Thumbnail)
		if err != nil {
			h.fail(w, assets.KindThumbnail, err)
			return
		}

		record, err := h.ownedVideo(ctx, videoID, userID)
		if err != nil {
			h.fail(w, assets.KindThumbnail, err)
			return
		}

		key, err := assets.NewKey(mediaType)
		if err != nil {
			h.fail(w, assets.KindThumbnail, apperr.Internal("Couldn't generate asset key", err))
			return
		}

		obj := assets.Object{
			VideoID:     videoID,
			Kind:        assets.KindThumbnail,
			Key:         key,
			ContentType: mediaType,
			Size:        header.Size,
		}
		if err := h.sink.Put(ctx, obj, file); err != nil {
			h.fail(w, assets.KindThumbnail, apperr.Internal("Couldn't save thumbnail", err))
			return
		}

		thumbnailURL := h.sink.URL(obj)
		record.ThumbnailURL = &thumbnailURL

		if err := h.store.UpdateVideo(ctx, record); err != nil {
			h.fail(w, assets.KindThumbnail, apperr.Internal("Couldn't update video", err))
			return
		}

		h.succeed(record, assets.KindThumbnail)
		response.WriteJSON(w, http.StatusOK, record)
	}
}

// UploadVideo stores a fast-start copy of an MP4 and points the record at it
// @Summary Upload a video
// @Description Replaces the video file of a video owned by the caller. Accepts video/mp4 up to 1 GiB. The stored key is prefixed with the orientation (landscape, portrait or other).
// @Tags videos
// @Accept mpfd
// @Produce json
// @Param videoId path string true "Video ID"
// @Param video formData file true "MP4 video"
// @Success 200 "null"
// @Failure 400 {object} response.Response "Invalid video ID or file"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Not the owner of the video"
// @Failure 404 {object} response.Response "Video not found"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Failure 500 {object} response.Response "Probe, repackage or storage failure"
// @Security BearerAuth
// @Router /api/videos/{videoId}/upload [post]
func (h *Handlers) UploadVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		videoID := r.PathValue("videoId")
		if err := h.validate.Var(videoID, "required,max=255"); err != nil {
			h.fail(w, assets.KindVideo, apperr.BadRequest("Invalid video ID", err))
			return
		}

		userID, ok := middleware.GetUserIDFromContext(ctx)
		if !ok {
			h.fail(w, assets.KindVideo, apperr.Unauthorized("user not authenticated", nil))
			return
		}

		// ownership first so a non-owner never gets the body read
		record, err := h.ownedVideo(ctx, videoID, userID)
		if err != nil {
			h.fail(w, assets.KindVideo, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.limits.Video+multipartOverhead)
		if err := r.ParseMultipartForm(videoMemory); err != nil {
			h.fail(w, assets.KindVideo, formError(err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("video")
		if err != nil {
			h.fail(w, assets.KindVideo, apperr.BadRequest("Unable to parse form file", err))
			return
		}
		defer file.Close()

		mediaType, err := h.checkFile(header, videoTypes, h.limits.Video)
		if err != nil {
			h.fail(w, assets.KindVideo, err)
			return
		}

		key, err := assets.NewKey(mediaType)
		if err != nil {
			h.fail(w, assets.KindVideo, apperr.Internal("Couldn't generate asset key", err))
			return
		}

		stagedPath, err := h.stage(key, file)
		if err != nil {
			h.fail(w, assets.KindVideo, apperr.Internal("Couldn't stage video", err))
			return
		}
		defer removeFile(stagedPath)

		geometry, err := h.prober.Probe(ctx, stagedPath)
		if err != nil {
			h.fail(w, assets.KindVideo, processFailure("Couldn't probe video", err))
			return
		}
		orientation := media.Orientation(geometry)

		processedPath, err := h.repackager.Repackage(ctx, stagedPath)
		if err != nil {
			h.fail(w, assets.KindVideo, processFailure("Couldn't process video", err))
			return
		}
		defer removeFile(processedPath)

		processed, err := os.Open(processedPath)
		if err != nil {
			h.fail(w, assets.KindVideo, apperr.Internal("Couldn't open processed video", err))
			return
		}
		defer processed.Close()

		var size int64
		if info, err := processed.Stat(); err == nil {
			size = info.Size()
		}

		obj := assets.Object{
			VideoID:     videoID,
			Kind:        assets.KindVideo,
			Key:         orientation + "/" + key,
			ContentType: mediaType,
			Size:        size,
		}
		if err := h.sink.Put(ctx, obj, processed); err != nil {
			h.fail(w, assets.KindVideo, apperr.Internal("Couldn't upload video", err))
			return
		}

		videoURL := h.sink.URL(obj)
		record.VideoURL = &videoURL

		if err := h.store.UpdateVideo(ctx, record); err != nil {
			h.fail(w, assets.KindVideo, apperr.Internal("Couldn't update video", err))
			return
		}

		slog.Info("video uploaded",
			slog.String("video_id", videoID),
			slog.String("orientation", orientation),
			slog.Int64("size", size))

		h.succeed(record, assets.KindVideo)
		response.WriteJSON(w, http.StatusOK, nil)
	}
}

// GetVideo returns a video record to its owner
// @Summary Get a video
// @Tags videos
// @Produce json
// @Param videoId path string true "Video ID"
// @Success 200 {object} video.Video
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Not the owner of the video"
// @Failure 404 {object} response.Response "Video not found"
// @Security BearerAuth
// @Router /api/videos/{videoId} [get]
func (h *Handlers) GetVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteError(w, apperr.Unauthorized("user not authenticated", nil))
			return
		}

		record, err := h.ownedVideo(r.Context(), r.PathValue("videoId"), userID)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, record)
	}
}

// GetThumbnail serves a thumbnail held by the memory sink
// @Summary Get a thumbnail
// @Description Only available when assets are kept in memory.
// @Tags videos
// @Produce image/png,image/jpeg
// @Param videoId path string true "Video ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response "Video or thumbnail not found"
// @Router /api/thumbnails/{videoId} [get]
func (h *Handlers) GetThumbnail() http.HandlerFunc {
	return h.serveAsset(assets.KindThumbnail)
}

// GetVideoContent serves a video held by the memory sink
// @Summary Get video bytes
// @Description Only available when assets are kept in memory. Supports range requests.
// @Tags videos
// @Produce video/mp4
// @Param videoId path string true "Video ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response "Video not found"
// @Router /api/videos/{videoId}/content [get]
func (h *Handlers) GetVideoContent() http.HandlerFunc {
	return h.serveAsset(assets.KindVideo)
}

func (h *Handlers) serveAsset(kind assets.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.PathValue("videoId")

		_, err := h.store.GetVideo(r.Context(), videoID)
		if errors.Is(err, storage.ErrNotFound) {
			response.WriteError(w, apperr.NotFound("Video not found", err))
			return
		}
		if err != nil {
			response.WriteError(w, apperr.Internal("Couldn't get video", err))
			return
		}

		reader, ok := h.sink.(assets.Reader)
		if !ok {
			response.WriteError(w, apperr.NotFound(fmt.Sprintf("No %s stored in memory", kind), nil))
			return
		}

		asset, err := reader.Get(kind, videoID)
		if err != nil {
			response.WriteError(w, apperr.NotFound(fmt.Sprintf("No %s for this video", kind), err))
			return
		}

		w.Header().Set("Content-Type", asset.MediaType)
		w.Header().Set("Cache-Control", "no-store")
		// zero modtime: no Last-Modified and no 304 for no-store content
		http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(asset.Data))
	}
}

// ownedVideo loads the record and checks that userID owns it. Ownership is
// evaluated on every request.
func (h *Handlers) ownedVideo(ctx context.Context, videoID, userID string) (video.Video, error) {
	record, err := h.store.GetVideo(ctx, videoID)
	if errors.Is(err, storage.ErrNotFound) {
		return video.Video{}, apperr.NotFound("Video not found", err)
	}
	if err != nil {
		return video.Video{}, apperr.Internal("Couldn't get video", err)
	}

	if !record.OwnedBy(userID) {
		return video.Video{}, apperr.Forbidden("You are not the owner of this video", nil)
	}

	return record, nil
}

// checkFile validates the declared media type against allowed (a space
// separated list) and the declared size against limit.
func (h *Handlers) checkFile(header *multipart.FileHeader, allowed string, limit int64) (string, error) {
	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil {
		return "", apperr.BadRequest("Invalid Content-Type", err)
	}

	if err := h.validate.Var(mediaType, "oneof="+allowed); err != nil {
		return "", apperr.BadRequest(fmt.Sprintf("Invalid file type %s", mediaType), err)
	}

	if err := h.validate.Var(header.Size, fmt.Sprintf("gt=0,lte=%d", limit)); err != nil {
		if header.Size <= 0 {
			return "", apperr.BadRequest("File is empty", err)
		}
		return "", apperr.BadRequest(fmt.Sprintf("File is larger than %d bytes", limit), err)
	}

	return mediaType, nil
}

// stage copies the upload to {stagingDir}/{key} for the external tools.
func (h *Handlers) stage(key string, src io.Reader) (string, error) {
	path := filepath.Join(h.stagingDir, key)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}

func (h *Handlers) fail(w http.ResponseWriter, kind assets.Kind, err error) {
	metrics.Uploads.WithLabelValues(string(kind), string(apperr.KindOf(err))).Inc()
	response.WriteError(w, err)
}

func (h *Handlers) succeed(record video.Video, kind assets.Kind) {
	metrics.Uploads.WithLabelValues(string(kind), "ok").Inc()
	h.publisher.PublishVideoUpdated(record, string(kind))
}

// formError maps a multipart parse failure to a client error.
func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.BadRequest(fmt.Sprintf("Request body is larger than %d bytes", tooLarge.Limit), err)
	}
	return apperr.BadRequest("Unable to parse form", err)
}

// processFailure keeps the tool's diagnostic output in the client message.
func processFailure(message string, err error) error {
	var perr *media.ProcessError
	if errors.As(err, &perr) {
		return apperr.Internal(message+": "+perr.Error(), err)
	}
	return apperr.Internal(message, err)
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove temp file", slog.String("path", path), slog.String("error", err.Error()))
	}
}
