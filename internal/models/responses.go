// Package models defines the JSON shapes served by the API and the
// records shared between the feed pipeline and its consumers.
package models

import (
	"time"

	"github.com/awaikar-syr/departby/internal/clock"
)

// ResponseModel is the envelope for every JSON endpoint.
type ResponseModel struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Data        any    `json:"data,omitempty"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// ResponseCurrentTime returns the envelope timestamp in Unix milliseconds.
func ResponseCurrentTime(c clock.Clock) int64 {
	return c.NowUnixMilli()
}

// NewOKResponse wraps data in a 200 envelope.
func NewOKResponse(data any, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        200,
		CurrentTime: ResponseCurrentTime(c),
		Data:        data,
		Text:        "OK",
		Version:     2,
	}
}

// CurrentTimeData is the payload of the current-time endpoint.
type CurrentTimeData struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
}

// NewCurrentTimeData builds the current-time payload from now.
func NewCurrentTimeData(now time.Time) CurrentTimeData {
	return CurrentTimeData{
		ReadableTime: now.Format(time.RFC3339),
		Time:         now.UnixMilli(),
	}
}
