package consts

import (
	"sync"
	"testing"
	"time"
)

func TestServiceName(t *testing.T) {
	if ServiceName != "paperforge" {
		t.Errorf("ServiceName = %q, want %q", ServiceName, "paperforge")
	}
}

func TestPageGeometry(t *testing.T) {
	if PageWidthMM != 210.0 {
		t.Errorf("PageWidthMM = %v, want 210", PageWidthMM)
	}
	if PageHeightMM != 297.0 {
		t.Errorf("PageHeightMM = %v, want 297", PageHeightMM)
	}
	// Target raster must keep the A4 aspect ratio within a small tolerance
	pageRatio := PageHeightMM / PageWidthMM
	rasterRatio := float64(RasterHeightPx) / float64(RasterWidthPx)
	if diff := pageRatio - rasterRatio; diff > 0.01 || diff < -0.01 {
		t.Errorf("raster aspect ratio %v deviates from A4 ratio %v", rasterRatio, pageRatio)
	}
}

func TestSetStartedAt(t *testing.T) {
	// Reset state for testing
	startedAt = time.Time{}
	startedOnce = sync.Once{}

	now := time.Now()
	SetStartedAt(now)

	if !GetStartedAt().Equal(now) {
		t.Errorf("GetStartedAt() = %v, want %v", GetStartedAt(), now)
	}

	// Second call must not overwrite
	SetStartedAt(now.Add(time.Hour))
	if !GetStartedAt().Equal(now) {
		t.Error("SetStartedAt() overwrote the start time on second call")
	}
}

func TestGetUptime_Zero(t *testing.T) {
	startedAt = time.Time{}
	startedOnce = sync.Once{}

	if GetUptime() != 0 {
		t.Errorf("GetUptime() = %v, want 0 before start", GetUptime())
	}
}
