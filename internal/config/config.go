package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed blocklist.yaml
var blocklistYAML []byte

type Config struct {
	Reddit     RedditConfig
	Trends     TrendsConfig
	FaceEngine FaceEngineConfig
	Batch      BatchConfig
	Cache      CacheConfig
	Artifacts  ArtifactsConfig
	Grok       GrokConfig
	Safety     SafetyConfig
}

type RedditConfig struct {
	BaseURL   string // defaults to https://www.reddit.com
	UserAgent string
}

type TrendsConfig struct {
	Subreddits    []string      // subreddits to pull hot posts from
	PerGroupLimit int           // raw posts requested per subreddit (over-fetch, default 15)
	MaxCandidates int           // cap on the merged candidate list (default 20)
	CacheTTL      time.Duration // memoization TTL for the fetch result (default 2h)
	FetchTimeout  time.Duration // per-subreddit request timeout (default 10s)
}

type FaceEngineConfig struct {
	URL               string // face engine sidecar base URL (e.g. http://localhost:5005)
	Timeout           time.Duration
	ReferenceFacePath string // image containing the face used as the swap source
}

type BatchConfig struct {
	Target      int // successful swaps to accumulate before stopping (default 2)
	MaxAttempts int // candidates to try before giving up (default 15)
	Concurrency int // transform workers (default 2)
}

type CacheConfig struct {
	TTL         time.Duration // batch cache validity (default 24h)
	File        string        // if set, cache persists to this JSON file; otherwise in-memory
	Wait        bool          // block readers on an in-flight regeneration instead of serving stale
	WaitTimeout time.Duration // upper bound on that wait before falling back to stale (default 30s)
}

type ArtifactsConfig struct {
	Dir string // local directory for swapped images (default "static")

	// Optional S3-compatible object store. When Endpoint is set, artifacts
	// are uploaded instead of written to Dir.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioBaseURL   string // public base URL for stored objects
}

type GrokConfig struct {
	APIKey  string
	BaseURL string // defaults to https://api.x.ai/v1
	Model   string
}

type SafetyConfig struct {
	Blocklist []string `yaml:"blocklist"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envDuration reads an environment variable and parses it as a duration
// ("30s", "2h", ...). Returns the default value if unset or invalid.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean ("true"/"false").
// Returns the default value if unset or unrecognized.
func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

// envCSV reads a comma-separated environment variable into a slice,
// trimming whitespace and dropping empty entries.
func envCSV(key string, defaultVal []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var safety SafetyConfig
	if err := yaml.Unmarshal(blocklistYAML, &safety); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded blocklist.yaml: " + err.Error())
	}

	return &Config{
		Reddit: RedditConfig{
			BaseURL:   envString("REDDIT_BASE_URL", "https://www.reddit.com"),
			UserAgent: envString("REDDIT_USER_AGENT", "memeforge/1.0"),
		},
		Trends: TrendsConfig{
			Subreddits:    envCSV("TREND_SUBREDDITS", []string{"wholesomememes", "memes", "aww", "funny"}),
			PerGroupLimit: envInt("TREND_PER_GROUP_LIMIT", 15),
			MaxCandidates: envInt("TREND_MAX_CANDIDATES", 20),
			CacheTTL:      envDuration("TREND_CACHE_TTL", 2*time.Hour),
			FetchTimeout:  envDuration("TREND_FETCH_TIMEOUT", 10*time.Second),
		},
		FaceEngine: FaceEngineConfig{
			URL:               os.Getenv("FACE_ENGINE_URL"),
			Timeout:           envDuration("FACE_ENGINE_TIMEOUT", 30*time.Second),
			ReferenceFacePath: envString("REFERENCE_FACE_PATH", "./assets/reference_face.jpg"),
		},
		Batch: BatchConfig{
			Target:      envInt("BATCH_TARGET", 2),
			MaxAttempts: envInt("BATCH_MAX_ATTEMPTS", 15),
			Concurrency: envInt("BATCH_CONCURRENCY", 2),
		},
		Cache: CacheConfig{
			TTL:         envDuration("CACHE_TTL", 24*time.Hour),
			File:        os.Getenv("CACHE_FILE"),
			Wait:        envBool("CACHE_WAIT", true),
			WaitTimeout: envDuration("CACHE_WAIT_TIMEOUT", 30*time.Second),
		},
		Artifacts: ArtifactsConfig{
			Dir:            envString("ARTIFACT_DIR", "static"),
			MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:    envString("MINIO_BUCKET", "memeforge-artifacts"),
			MinioUseSSL:    envBool("MINIO_USE_SSL", false),
			MinioBaseURL:   os.Getenv("MINIO_PUBLIC_BASE_URL"),
		},
		Grok: GrokConfig{
			APIKey:  os.Getenv("GROK_API_KEY"),
			BaseURL: envString("GROK_BASE_URL", "https://api.x.ai/v1"),
			Model:   envString("GROK_MODEL", "grok-2-vision-latest"),
		},
		Safety: safety,
	}
}
