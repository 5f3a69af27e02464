package dto

import "time"

type StatsOutput struct {
	Cycles         int
	Classified     int
	Triggers       int
	LastMotion     float64
	LastDistracted bool
	LastType       string
	LastConfidence float64
	Backoff        int
	NextInterval   time.Duration
	EpisodeRunning bool
	EpisodeSeconds int
	CameraReady    bool
	MonitorEnabled bool
}
