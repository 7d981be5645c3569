package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/cozy-creator/cropscan/internal/api/middleware"
	"github.com/cozy-creator/cropscan/internal/app"
	"github.com/cozy-creator/cropscan/internal/predictor"
	"github.com/cozy-creator/cropscan/internal/utils/hashutil"
	"github.com/cozy-creator/cropscan/internal/worker"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const fileField = "file"

var allowedExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

var (
	errNoFilePart     = errors.New("no file part")
	errNoSelectedFile = errors.New("no selected file")
)

type upload struct {
	Filename string
	Data     []byte
}

// Analyze accepts a multipart upload under the "file" field and responds
// with the detection for that image.
func Analyze(c *gin.Context) {
	app := c.MustGet("app").(*app.App)
	logger := app.Logger.With(zap.String("request_id", middleware.RequestID(c)))

	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			logger.Error("Unexpected error", zap.Error(err), zap.Stack("stack"))
			respondError(c, &UnexpectedError{Err: err})
		}
	}()

	if limit := app.Config().MaxUploadBytes(); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	prediction, err := analyze(c, app, logger)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Debug("Prediction", zap.Any("prediction", prediction))
	c.JSON(http.StatusOK, prediction)
}

func analyze(c *gin.Context, app *app.App, logger *zap.Logger) (*predictor.DetectionResult, error) {
	file, err := formFile(c)
	switch {
	case errors.Is(err, errNoFilePart):
		logger.Error("No file part in the request")
		return nil, &ValidationError{Message: MsgNoFilePart}
	case errors.Is(err, errNoSelectedFile):
		logger.Error("No file selected")
		return nil, &ValidationError{Message: MsgNoSelectedFile}
	case err != nil:
		logger.Error("Unexpected error", zap.Error(err))
		return nil, &UnexpectedError{Err: err}
	}

	if !hasAllowedExtension(file.Filename) {
		logger.Error("Invalid file type", zap.String("filename", file.Filename))
		return nil, &ValidationError{Message: MsgInvalidFileType}
	}

	prediction, err := process(c.Request.Context(), app, file, logger)
	if err != nil {
		if errors.Is(err, worker.ErrTaskPanicked) {
			logger.Error("Unexpected error", zap.Error(err))
			return nil, &UnexpectedError{Err: err}
		}

		logger.Error("Error processing image", zap.String("filename", file.Filename), zap.Error(err))
		return nil, &ProcessingError{Err: err}
	}

	return prediction, nil
}

func process(ctx context.Context, app *app.App, file *upload, logger *zap.Logger) (*predictor.DetectionResult, error) {
	logger.Debug("Received upload",
		zap.String("filename", file.Filename),
		zap.Int("size", len(file.Data)),
		zap.String("mimetype", mimetype.Detect(file.Data).String()),
		zap.String("digest", hashutil.Digest(file.Data)),
	)

	tensor, err := app.Preprocessor().Preprocess(ctx, file.Data)
	if err != nil {
		return nil, err
	}

	return app.Predictor.Predict(ctx, tensor)
}

// formFile returns the first "file" part that carries a filename parameter.
// It returns errNoFilePart when there is none, and errNoSelectedFile when that
// parameter is empty (what browsers submit for an empty file input). A "file"
// part without a filename parameter is a plain form value and is skipped.
func formFile(c *gin.Context) (*upload, error) {
	reader, err := c.Request.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
		return nil, errNoFilePart
	}
	if err != nil {
		return nil, err
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errNoFilePart
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read multipart form: %w", err)
		}

		filename, ok := partFilename(part.Header.Get("Content-Disposition"))
		if part.FormName() != fileField || !ok {
			continue
		}
		if filename == "" {
			return nil, errNoSelectedFile
		}

		data, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}

		return &upload{Filename: filename, Data: data}, nil
	}
}

// partFilename reports the raw filename parameter of a Content-Disposition
// header and whether the parameter was present at all.
func partFilename(disposition string) (string, bool) {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return "", false
	}

	filename, ok := params["filename"]
	return filename, ok
}

func hasAllowedExtension(filename string) bool {
	filename = strings.ToLower(filename)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}

	return false
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}

	return fmt.Errorf("%v", r)
}
