package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

type ProgressInfo struct {
	FileName     string
	TotalRecords int
	Processed    int
	Failed       int
	Status       string // "processing", "completed", "error"
	Error        string
	StartTime    time.Time
	EndTime      time.Time
}

type registrar interface {
	Register(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error)
}

// ImportService registers the rows of roster CSV files. Rows go through the
// registration operation one at a time, in file order.
type ImportService struct {
	registrar         registrar
	log               zerolog.Logger
	fileProgressMap   map[string]*ProgressInfo
	fileProgressLock  sync.RWMutex
	progressListeners map[chan *ProgressInfo]bool
	listenerLock      sync.RWMutex
}

func NewImportService(r registrar, log zerolog.Logger) *ImportService {
	return &ImportService{
		registrar:         r,
		log:               log.With().Str("service", "import").Logger(),
		fileProgressMap:   make(map[string]*ProgressInfo),
		progressListeners: make(map[chan *ProgressInfo]bool),
	}
}

func (s *ImportService) RegisterProgressListener(ch chan *ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	s.progressListeners[ch] = true
}

// UnregisterProgressListener removes a client from receiving progress updates
func (s *ImportService) UnregisterProgressListener(ch chan *ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	delete(s.progressListeners, ch)
}

// BroadcastProgress sends a copy of progress to every listener that is ready
// to receive it.
func (s *ImportService) BroadcastProgress(progress *ProgressInfo) {
	s.listenerLock.RLock()
	defer s.listenerLock.RUnlock()

	for listener := range s.progressListeners {
		copyProgress := *progress
		select {
		case listener <- &copyProgress:
		default:
		}
	}
}

func (s *ImportService) GetFileProgress(fileName string) *ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		copyProgress := *progress
		return &copyProgress
	}
	return nil
}

func (s *ImportService) GetAllFileProgress() []*ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	result := make([]*ProgressInfo, 0, len(s.fileProgressMap))
	for _, progress := range s.fileProgressMap {
		copyProgress := *progress
		result = append(result, &copyProgress)
	}
	return result
}

// ProcessCSV registers every row of the file at filePath. The first row is a
// header; the others must hold surname, given name and card number. A row
// that fails to register is counted and skipped.
func (s *ImportService) ProcessCSV(ctx context.Context, filePath string) error {
	fileName := filepath.Base(filePath)
	startTime := time.Now()

	s.update(fileName, func(p *ProgressInfo) {
		*p = ProgressInfo{FileName: fileName, Status: StatusProcessing, StartTime: startTime}
	})

	totalRecords, err := countRecords(filePath)
	if err != nil {
		s.fail(fileName, fmt.Errorf("count records: %w", err))
		return err
	}
	s.update(fileName, func(p *ProgressInfo) { p.TotalRecords = totalRecords })

	file, err := os.Open(filePath)
	if err != nil {
		s.fail(fileName, fmt.Errorf("open file: %w", err))
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	if _, err := reader.Read(); err != nil && !errors.Is(err, io.EOF) {
		s.fail(fileName, fmt.Errorf("read header: %w", err))
		return err
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			if !isParseError(err) {
				s.fail(fileName, fmt.Errorf("read row: %w", err))
				return err
			}
			s.log.Warn().Err(err).Str("file", fileName).Int("line", line).Msg("unreadable row")
			s.update(fileName, func(p *ProgressInfo) { p.Processed++; p.Failed++ })
			continue
		}
		if err := ctx.Err(); err != nil {
			s.fail(fileName, err)
			return err
		}

		failed := false
		if len(record) != 3 {
			s.log.Warn().Str("file", fileName).Int("line", line).Int("columns", len(record)).Msg("row needs 3 columns")
			failed = true
		} else if _, err := s.registrar.Register(ctx, RegistrationRequest{
			Surname:    record[0],
			GivenName:  record[1],
			CardNumber: record[2],
		}); err != nil {
			s.log.Warn().Err(err).Str("file", fileName).Int("line", line).Msg("row not registered")
			failed = true
		}

		s.update(fileName, func(p *ProgressInfo) {
			p.Processed++
			if failed {
				p.Failed++
			}
		})
	}

	s.update(fileName, func(p *ProgressInfo) {
		p.Status = StatusCompleted
		p.EndTime = time.Now()
	})

	s.log.Info().Str("file", fileName).Dur("elapsed", time.Since(startTime)).Msg("import completed")
	return nil
}

func (s *ImportService) update(fileName string, fn func(p *ProgressInfo)) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	progress, exists := s.fileProgressMap[fileName]
	if !exists {
		progress = &ProgressInfo{FileName: fileName}
		s.fileProgressMap[fileName] = progress
	}
	fn(progress)
	if progress.TotalRecords > 0 && progress.Processed > progress.TotalRecords {
		progress.Processed = progress.TotalRecords
	}
	s.BroadcastProgress(progress)
}

func (s *ImportService) fail(fileName string, err error) {
	s.log.Error().Err(err).Str("file", fileName).Msg("import failed")
	s.update(fileName, func(p *ProgressInfo) {
		p.Status = StatusError
		p.Error = err.Error()
		p.EndTime = time.Now()
	})
}

func countRecords(filePath string) (int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for {
		_, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		// a malformed row is still a row; ProcessCSV counts it as failed
		if err != nil && !isParseError(err) {
			return count, err
		}
		count++
	}
	return count, nil
}

func isParseError(err error) bool {
	var parseErr *csv.ParseError
	return errors.As(err, &parseErr)
}
