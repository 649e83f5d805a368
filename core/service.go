package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Timestamp layout mirrors the format the dashboards already render,
// the JS Date.toLocaleString() shape.
const timestampLayout = "1/2/2006, 3:04:05 PM"

type Service struct {
	log   *slog.Logger
	db    DB
	files FileStore
}

func NewService(log *slog.Logger, db DB, files FileStore) (*Service, error) {
	return &Service{
		log:   log,
		db:    db,
		files: files}, nil
}

func (s *Service) ListRequests(ctx context.Context, assignedTo string) ([]Request, error) {
	s.log.Info("list requests", "assigned_to", assignedTo)

	requests, err := s.db.ListRequests(ctx, assignedTo)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (s *Service) CreateRequest(ctx context.Context, request Request) (Request, error) {
	s.log.Info("create request", "email", request.Email, "project_title", request.ProjectTitle)

	request.ID = uuid.NewString()
	request.ReferenceNumber = newReferenceNumber()
	request.Timestamp = time.Now().Format(timestampLayout)
	// The submission form cannot set workflow or attachment state.
	request.Status = StatusPending
	request.CompletedAt = nil
	request.CanceledAt = nil
	request.CancellationReason = ""
	request.FileURL = ""
	request.FileName = ""
	request.RequesterFileURL = ""
	request.RequesterFileName = ""

	if err := s.db.AddRequest(ctx, request); err != nil {
		return Request{}, err
	}

	s.log.Info("created request", "id", request.ID, "reference_number", request.ReferenceNumber)

	return request, nil
}

// newReferenceNumber returns a random 4-digit display code. Collisions are
// possible: the code is a human-facing label, not an identifier.
func newReferenceNumber() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}

func (s *Service) UpdateRequest(ctx context.Context, id string, update RequestUpdate) (Request, error) {
	s.log.Info("update request", "id", id)

	request, err := s.db.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}

	if update.Status != nil {
		if err := applyStatus(&request, *update.Status); err != nil {
			return Request{}, err
		}
	}
	if update.AssignedTo != nil {
		request.AssignedTo = *update.AssignedTo
	}
	if update.CancellationReason != nil {
		request.CancellationReason = *update.CancellationReason
	}
	if update.DateNeeded != nil {
		request.DateNeeded = *update.DateNeeded
	}
	if update.SpecialInstructions != nil {
		request.SpecialInstructions = *update.SpecialInstructions
	}

	if err := s.db.SaveRequest(ctx, request); err != nil {
		return Request{}, err
	}

	return request, nil
}

// applyStatus enforces the lifecycle rules: a request cannot complete without
// an evaluator file, a completed request never changes status again, and the
// transition timestamps are stamped exactly once, here, not by the client.
func applyStatus(request *Request, next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if request.Status == next {
		return nil
	}
	if request.Status == StatusCompleted {
		return ErrRequestCompleted
	}

	switch next {
	case StatusCompleted:
		if request.FileURL == "" {
			return ErrEvaluatorFileRequired
		}
		now := time.Now().Format(time.RFC3339)
		request.CompletedAt = &now
	case StatusCanceled:
		now := time.Now().Format(time.RFC3339)
		request.CanceledAt = &now
	}

	request.Status = next
	return nil
}

func (s *Service) DeleteRequest(ctx context.Context, id string) error {
	s.log.Info("delete request", "id", id)

	return s.db.DeleteRequest(ctx, id)
}

func (s *Service) AttachEvaluatorFile(ctx context.Context, requestID, fileName string, file io.Reader) (Request, error) {
	s.log.Info("attach evaluator file", "request_id", requestID, "file_name", fileName)

	request, err := s.db.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}

	storedName, err := s.files.Save(fileName, file)
	if err != nil {
		return Request{}, err
	}

	request.FileURL = downloadPath(storedName)
	request.FileName = fileName

	if err := s.db.SaveRequest(ctx, request); err != nil {
		return Request{}, err
	}

	return request, nil
}

func (s *Service) AttachRequesterFile(ctx context.Context, requestID, fileName string, file io.Reader) (Request, error) {
	s.log.Info("attach requester file", "request_id", requestID, "file_name", fileName)

	request, err := s.db.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}

	storedName, err := s.files.Save(fileName, file)
	if err != nil {
		return Request{}, err
	}

	request.RequesterFileURL = downloadPath(storedName)
	request.RequesterFileName = fileName

	if err := s.db.SaveRequest(ctx, request); err != nil {
		return Request{}, err
	}

	return request, nil
}

func downloadPath(storedName string) string {
	return "/api/download/" + storedName
}

func (s *Service) OpenFile(name string) (io.ReadCloser, error) {
	s.log.Info("open file", "name", name)

	return s.files.Open(name)
}

func (s *Service) Members(ctx context.Context) ([]TeamMember, error) {
	return s.db.ListMembers(ctx)
}

func (s *Service) Member(ctx context.Context, id string) (MemberStats, error) {
	s.log.Info("get member", "id", id)

	member, err := s.db.GetMember(ctx, id)
	if err != nil {
		return MemberStats{}, err
	}

	requests, err := s.db.ListRequests(ctx, "")
	if err != nil {
		return MemberStats{}, err
	}

	return memberStats(member, requests), nil
}

// TeamStats recomputes per-evaluator workload from a full scan of the
// request set. Open counts Pending and Ongoing, closed counts Completed;
// canceled requests land in neither bucket.
func (s *Service) TeamStats(ctx context.Context, evaluatorID string) ([]MemberStats, error) {
	s.log.Info("team stats", "evaluator_id", evaluatorID)

	members, err := s.db.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	if evaluatorID != "" {
		member, err := s.db.GetMember(ctx, evaluatorID)
		if err != nil {
			return nil, err
		}
		members = []TeamMember{member}
	}

	requests, err := s.db.ListRequests(ctx, "")
	if err != nil {
		return nil, err
	}

	stats := make([]MemberStats, 0, len(members))
	for _, member := range members {
		stats = append(stats, memberStats(member, requests))
	}

	return stats, nil
}

func memberStats(member TeamMember, requests []Request) MemberStats {
	stats := MemberStats{
		ID:              member.ID,
		Name:            member.Name,
		ProfileImageURL: member.ProfileImageURL,
	}

	for _, request := range requests {
		if request.AssignedTo != member.Name {
			continue
		}
		switch request.Status {
		case StatusPending, StatusOngoing:
			stats.OpenTasks++
		case StatusCompleted:
			stats.ClosedTasks++
		}
	}

	if total := stats.OpenTasks + stats.ClosedTasks; total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.ClosedTasks) / float64(total) * 100))
	}

	return stats
}

// Profile pictures are restricted to images, tighter than the general
// attachment filter.
var profileImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

func (s *Service) UpsertProfileImage(ctx context.Context, evaluatorID, fileName string, file io.Reader) (TeamMember, error) {
	s.log.Info("upsert profile image", "evaluator_id", evaluatorID, "file_name", fileName)

	if !profileImageExts[strings.ToLower(filepath.Ext(fileName))] {
		return TeamMember{}, ErrUnsupportedFileType
	}

	member, err := s.db.GetMember(ctx, evaluatorID)
	if err != nil {
		if !errors.Is(err, ErrMemberNotFound) {
			return TeamMember{}, err
		}
		member = TeamMember{ID: evaluatorID, Name: evaluatorID}
	}

	storedName, err := s.files.Save(fileName, file)
	if err != nil {
		return TeamMember{}, err
	}

	member.ProfileImageURL = downloadPath(storedName)

	if err := s.db.UpsertMember(ctx, member); err != nil {
		return TeamMember{}, err
	}

	return member, nil
}

// SyncMembers seeds the evaluator roster from configuration at startup.
// Existing profile images survive the upsert.
func (s *Service) SyncMembers(ctx context.Context, members []TeamMember) error {
	for _, member := range members {
		if err := s.db.UpsertMember(ctx, member); err != nil {
			return err
		}
	}

	s.log.Info("team roster synced", "members", len(members))
	return nil
}
