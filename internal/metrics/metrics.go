// Package metrics ships review activity to InfluxDB. When the server is
// unreachable the manager appends gzipped line protocol to a local backup
// file instead, so activity from an offline session can be replayed later.
package metrics

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/reelmark/reelmark/internal/config"
	"github.com/reelmark/reelmark/pkg/core"
)

// Buckets provisioned at connect time.
const (
	BucketReviewActivity = "review_activity"
	BucketPlayback       = "playback"
)

// DefaultBucketNames are the InfluxDB buckets used by reelmark.
var DefaultBucketNames = []string{
	BucketReviewActivity,
	BucketPlayback,
}

const errChSize = 64

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client       influxdb2.Client
	Writers      map[string]influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	BucketNames  []string
	Logger       zerolog.Logger
	BackupPath   string

	backupFile *os.File
	errCh      chan error
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		IsValid:     false,
		BucketNames: DefaultBucketNames,
		Logger:      log,
		BackupPath:  backupPath,
		errCh:       make(chan error, errChSize),
	}
}

// Connect establishes a connection to InfluxDB. An unreachable server is
// not an error: the manager falls back to the backup file.
func (m *Manager) Connect() error {
	cfg := config.GetInfluxConfig()
	if !cfg.Enabled {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		cfg.URL(),
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := m.Client.Ping(context.Background())

	if err != nil || !running {
		m.IsValid = false
		if m.BackupWriter == nil {
			m.Logger.Info().Str("backupPath", m.BackupPath).
				Msg("Failed to reach InfluxDB, writing to backup file")

			file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %w", err)
			}
			m.backupFile = file
			m.BackupWriter = gzip.NewWriter(file)
		}
	} else {
		m.IsValid = true
	}

	if m.IsValid {
		if err := m.setupOrganizationAndBuckets(cfg.Org); err != nil {
			return err
		}
		m.CreateWriters(cfg.Org)
		m.Logger.Info().Msg("InfluxDB client initialized")
	} else {
		m.Logger.Warn().Msg("InfluxDB client failed to initialize, using backup writer")
	}

	return nil
}

func (m *Manager) setupOrganizationAndBuckets(orgName string) error {
	ctx := context.Background()

	// ensure org exists
	_, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		_, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	influxOrg, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Error().Err(err).Str("org", orgName).Msg("Error getting organization")
		return err
	}

	// ensure buckets exist with 90 day retention
	for _, bucket := range m.BucketNames {
		_, err = m.Client.BucketsAPI().FindBucketByName(ctx, bucket)
		if err != nil {
			m.Logger.Info().Str("bucket", bucket).Msg("Bucket not found, creating")

			rule := domain.RetentionRuleTypeExpire
			_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, influxOrg, bucket, domain.RetentionRule{
				Type:         &rule,
				EverySeconds: 60 * 60 * 24 * 90, // 90 days
			})
			if err != nil {
				m.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error creating bucket")
				return err
			}
		}
	}

	return nil
}

// CreateWriters creates write APIs for all configured buckets and forwards
// their async write errors to the Errs channel.
func (m *Manager) CreateWriters(orgName string) {
	for _, bucket := range m.BucketNames {
		m.Logger.Trace().Str("bucket", bucket).Msg("Creating InfluxDB writer")
		m.Writers[bucket] = m.Client.WriteAPI(orgName, bucket)

		errorsCh := m.Writers[bucket].Errors()
		go func(bucketName string, errorsCh <-chan error) {
			for writeErr := range errorsCh {
				m.Logger.Error().Err(writeErr).Str("bucket", bucketName).
					Msg("Error sending data to InfluxDB")
				select {
				case m.errCh <- writeErr:
				default:
				}
			}
		}(bucket, errorsCh)
	}

	m.Logger.Debug().Msg("InfluxDB writers initialized")
}

// Errs exposes asynchronous write errors for the caller to drain.
func (m *Manager) Errs() <-chan error {
	return m.errCh
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(ctx context.Context, bucket string, point *influxdb2_write.Point) error {
	if m.IsValid {
		if _, ok := m.Writers[bucket]; !ok {
			return fmt.Errorf("influxDB bucket '%s' not registered", bucket)
		}
		m.Writers[bucket].WritePoint(point)
		return nil
	}

	if m.BackupWriter == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}

	lineProtocol := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if _, err := m.BackupWriter.Write([]byte(lineProtocol)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}

	return nil
}

// WriteMark records one captured frame in the review_activity bucket.
func (m *Manager) WriteMark(ctx context.Context, reviewID string, frame core.MarkedFrame) error {
	point := influxdb2_write.NewPointWithMeasurement("mark").
		AddTag("reviewId", reviewID).
		AddTag("streamId", strconv.FormatUint(uint64(frame.StreamID), 10)).
		AddField("timeSeconds", frame.TimeSeconds).
		AddField("payloadBytes", len(frame.Annotations)).
		SetTime(time.Now())

	return m.WritePoint(ctx, BucketReviewActivity, point)
}

// WritePlayback records a playback action (play, pause, speed) in the
// playback bucket.
func (m *Manager) WritePlayback(ctx context.Context, reviewID string, streamID uint, action string, position, speed float64) error {
	point := influxdb2_write.NewPointWithMeasurement("playback").
		AddTag("reviewId", reviewID).
		AddTag("streamId", strconv.FormatUint(uint64(streamID), 10)).
		AddTag("action", action).
		AddField("position", position).
		AddField("speed", speed).
		SetTime(time.Now())

	return m.WritePoint(ctx, BucketPlayback, point)
}

// Close flushes pending writes and releases the client and backup file.
func (m *Manager) Close() {
	if m.IsValid && m.Client != nil {
		for _, writer := range m.Writers {
			writer.Flush()
		}
		m.Client.Close()
	}
	if m.BackupWriter != nil {
		_ = m.BackupWriter.Close()
	}
	if m.backupFile != nil {
		_ = m.backupFile.Close()
	}
}
