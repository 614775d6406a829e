package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"smartcity-service/internal/model"
	"smartcity-service/internal/repository"
	"smartcity-service/internal/vision"
)

// AnalysisStore is the persistence surface camera-based bin analysis needs.
type AnalysisStore interface {
	BinByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.WasteBin, error)
	BinsWithCameras(ctx context.Context, scope model.Scope) ([]model.WasteBin, error)
	UpdateBinAnalysis(ctx context.Context, bin *model.WasteBin) error
	CreateAlert(ctx context.Context, alert *model.AlertNotification) error
}

// ImageAnalyzer returns a verdict for a bin snapshot. Implementations never
// fail; an untrusted upstream yields a degraded conservative verdict.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image []byte) vision.Analysis
}

const (
	imageSourceCCTV   = "CCTV"
	imageFetchTimeout = 15 * time.Second
	maxImageBytes     = 8 << 20
)

// AnalysisService refreshes bin fill state from camera snapshots.
type AnalysisService struct {
	store    AnalysisStore
	analyzer ImageAnalyzer
	http     *http.Client
	log      zerolog.Logger
}

func NewAnalysisService(store AnalysisStore, analyzer ImageAnalyzer, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{
		store:    store,
		analyzer: analyzer,
		http:     &http.Client{Timeout: imageFetchTimeout},
		log:      log,
	}
}

// AnalyzeBin snapshots the bin's camera, runs the image through the vision
// upstream and persists the verdict. A bin judged full also raises a
// WASTE_BIN_FULL alert.
func (s *AnalysisService) AnalyzeBin(ctx context.Context, scope model.Scope, binID uuid.UUID) (*model.WasteBin, error) {
	bin, err := s.store.BinByID(ctx, scope, binID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("bin %s: %w", binID, ErrNotFound)
		}
		return nil, err
	}
	if !hasUsableCamera(bin) {
		return nil, fmt.Errorf("bin %s has no usable camera: %w", binID, ErrValidation)
	}

	if err := s.analyzeOne(ctx, bin); err != nil {
		return nil, err
	}
	return bin, nil
}

// AnalyzeAll runs the camera sweep over every bin with a usable camera and
// returns how many were analyzed. Per-bin failures are logged and skipped so
// one broken camera cannot stall the sweep.
func (s *AnalysisService) AnalyzeAll(ctx context.Context, scope model.Scope) (int, error) {
	bins, err := s.store.BinsWithCameras(ctx, scope)
	if err != nil {
		return 0, err
	}

	analyzed := 0
	for i := range bins {
		bin := &bins[i]
		if !hasUsableCamera(bin) {
			continue
		}
		if err := s.analyzeOne(ctx, bin); err != nil {
			s.log.Warn().Err(err).Str("bin_id", bin.ID.String()).Msg("bin analysis failed")
			continue
		}
		analyzed++
	}

	s.log.Info().Int("analyzed", analyzed).Int("candidates", len(bins)).Msg("camera sweep finished")
	return analyzed, nil
}

func (s *AnalysisService) analyzeOne(ctx context.Context, bin *model.WasteBin) error {
	image, err := s.fetchImage(ctx, *bin.CameraURL)

	var analysis vision.Analysis
	if err != nil {
		s.log.Warn().Err(err).Str("bin_id", bin.ID.String()).Msg("camera snapshot failed")
		analysis = vision.Fallback("camera image unavailable")
	} else {
		analysis = s.analyzer.AnalyzeImage(ctx, image)
	}

	bin.FillLevel = analysis.FillLevel
	bin.IsFull = analysis.IsFull
	bin.ImageURL = bin.CameraURL
	bin.ImageSource = imageSourceCCTV
	bin.LastAnalysis = fmt.Sprintf("is_full=%t fill_level=%d%% confidence=%.0f%% %s",
		analysis.IsFull, analysis.FillLevel, analysis.Confidence, analysis.Notes)

	if err := s.store.UpdateBinAnalysis(ctx, bin); err != nil {
		return err
	}

	if analysis.IsFull {
		binID := bin.ID
		alert := &model.AlertNotification{
			ID:                uuid.New(),
			AlertType:         model.AlertWasteBinFull,
			Title:             "Waste bin full",
			Message:           fmt.Sprintf("Bin at %s is full (fill level %d%%)", bin.Address, bin.FillLevel),
			Severity:          model.SeverityWarning,
			RelatedWasteBinID: &binID,
			CreatedAt:         time.Now(),
		}
		if err := s.store.CreateAlert(ctx, alert); err != nil {
			s.log.Error().Err(err).Str("bin_id", bin.ID.String()).Msg("full-bin alert not created")
		}
	}
	return nil
}

func (s *AnalysisService) fetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

// hasUsableCamera filters out bins whose camera URL is empty or a seed-data
// placeholder.
func hasUsableCamera(bin *model.WasteBin) bool {
	if bin.CameraURL == nil {
		return false
	}
	url := strings.TrimSpace(*bin.CameraURL)
	if url == "" {
		return false
	}
	return !strings.Contains(strings.ToLower(url), "placeholder")
}
