package constants

import "time"

var CacheTTL = struct {
	PerkDataset time.Duration
}{
	PerkDataset: 60 * time.Minute,
}

var ScraperConfig = struct {
	Timeout           time.Duration
	MaxRedirects      int
	UserAgent         string
	MinLargeTableRows int
}{
	Timeout:           15 * time.Second,
	MaxRedirects:      5,
	UserAgent:         "DBD-Kakao-Bot/1.0.0 (Educational Purpose)",
	MinLargeTableRows: 10,
}

var PerkLimits = struct {
	MinNameLength        int
	MaxNameLength        int
	MaxDescriptionLength int
	MaxSearchResults     int
}{
	MinNameLength:        3,
	MaxNameLength:        100,
	MaxDescriptionLength: 1000,
	MaxSearchResults:     5,
}

var WebSocketConfig = struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
}{
	MaxReconnectAttempts: 5,
	ReconnectDelay:       5 * time.Second,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var TranslationConfig = struct {
	Version     string
	Language    string
	Concurrency int
}{
	Version:     "1.0",
	Language:    "vi-VN",
	Concurrency: 8,
}
