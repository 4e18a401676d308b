package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yttmp3/cache"
	"yttmp3/config"
	"yttmp3/convert"
	"yttmp3/jobs"
	"yttmp3/signature"
	"yttmp3/types"
	"yttmp3/youtube"
)

// Extractor fetches normalized metadata for a video URL.
// Implemented by youtube.Extractor.
type Extractor interface {
	FetchInfo(ctx context.Context, url string) (*types.VideoInfo, error)
}

// MetadataFallback looks up metadata by video ID when extraction fails.
// Implemented by metadata.Client.
type MetadataFallback interface {
	FetchInfo(ctx context.Context, videoID string) (*types.VideoInfo, error)
}

// Converter runs and tracks conversion jobs. Implemented by jobs.Manager.
type Converter interface {
	Convert(videoID, url, title string) *jobs.Job
	GetJob(id string) (jobs.Job, bool)
	Release(id string)
}

// Server handles HTTP API requests for the converter.
type Server struct {
	extractor Extractor
	fallback  MetadataFallback // nil when no API key is configured
	converter Converter
	progress  cache.ProgressStore
	signer    *signature.Signer // nil when signing is disabled
}

// NewServer creates an API server instance.
func NewServer(extractor Extractor, fallback MetadataFallback, converter Converter, progress cache.ProgressStore, signer *signature.Signer) *Server {
	return &Server{
		extractor: extractor,
		fallback:  fallback,
		converter: converter,
		progress:  progress,
		signer:    signer,
	}
}

// RegisterVideoRoutes registers the conversion endpoints.
func (s *Server) RegisterVideoRoutes(r *gin.Engine) {
	r.POST("/api/video-info", s.handleVideoInfo)
	r.POST("/api/download", s.handleDownload)
	r.GET("/api/progress/:id", s.handleProgress)
}

// videoInfoRequest is the payload for /api/video-info.
type videoInfoRequest struct {
	URL string `json:"url"`
}

// downloadRequest is the payload for /api/download.
type downloadRequest struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Signature string `json:"signature"`
}

// handleVideoInfo validates the URL, extracts metadata, and returns the
// normalized VideoInfo, with a download token attached when signing is on.
func (s *Server) handleVideoInfo(c *gin.Context) {
	var req videoInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL cannot be empty"})
		return
	}

	videoID, err := youtube.ExtractVideoID(url)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid YouTube URL"})
		return
	}

	log.Printf("Fetching info for URL: %s", url)

	info, err := s.extractor.FetchInfo(c.Request.Context(), url)
	if err != nil && s.fallback != nil {
		log.Printf("Extraction failed (%v), trying Data API fallback", err)
		if fbInfo, fbErr := s.fallback.FetchInfo(c.Request.Context(), videoID); fbErr == nil {
			info, err = fbInfo, nil
		}
	}
	if err != nil {
		s.respondExtractionError(c, err)
		return
	}

	if s.signer != nil {
		tok, err := s.signer.Issue(info.VideoID, config.AudioFormat)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue download token"})
			return
		}
		info.Signature = tok.Encode()
	}

	log.Printf("Successfully extracted info for: %s", info.Title)
	c.JSON(http.StatusOK, info)
}

// handleDownload converts the video to MP3 and streams it back as an
// attachment. The request blocks until the conversion finishes.
func (s *Server) handleDownload(c *gin.Context) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	url := strings.TrimSpace(req.URL)
	videoID, err := youtube.ExtractVideoID(url)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid YouTube URL"})
		return
	}

	if s.signer != nil {
		tok, err := signature.Decode(req.Signature)
		if err == nil {
			err = s.signer.Verify(videoID, config.AudioFormat, tok)
		}
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired download token"})
			return
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "audio"
	}

	log.Printf("Starting download for: %s", title)

	job := s.converter.Convert(videoID, url, title)
	// The manager removes the output once the last waiter releases, so two
	// requests joined to the same job can both stream the file.
	defer s.converter.Release(job.ID)

	select {
	case <-job.Done():
	case <-c.Request.Context().Done():
		// Client went away; the job keeps running so a retry can join it.
		return
	}

	finished, ok := s.converter.GetJob(job.ID)
	if !ok || finished.Status != jobs.StatusCompleted {
		s.respondConversionError(c, finished.Err)
		return
	}

	filename := convert.SafeTitle(title) + "." + config.AudioFormat
	c.Header("Content-Type", "audio/mpeg")
	c.FileAttachment(finished.OutputPath, filename)
}

// handleProgress reports conversion progress for a job or video ID.
func (s *Server) handleProgress(c *gin.Context) {
	id := c.Param("id")

	percent, known, err := s.progress.GetProgress(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read progress"})
		return
	}
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": percent})
}

// respondExtractionError maps the extraction error taxonomy to status codes.
func (s *Server) respondExtractionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, youtube.ErrAgeRestricted):
		c.JSON(http.StatusForbidden, gin.H{"error": "Age-restricted content. Please ensure cookies are configured."})
	case errors.Is(err, youtube.ErrUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "Video is unavailable or private"})
	case errors.Is(err, youtube.ErrNoMetadata):
		c.JSON(http.StatusNotFound, gin.H{"error": "Could not extract video information"})
	default:
		log.Printf("Extraction error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process video. Please try again."})
	}
}

// respondConversionError maps a failed job to a status code.
func (s *Server) respondConversionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, jobs.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
	case errors.Is(err, youtube.ErrAgeRestricted):
		c.JSON(http.StatusForbidden, gin.H{"error": "Age-restricted content. Please ensure cookies are configured."})
	case errors.Is(err, youtube.ErrUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "Video is unavailable or private"})
	default:
		log.Printf("Conversion error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Download failed. Please try again."})
	}
}
