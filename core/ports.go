package core

import (
	"context"
	"io"
)

type DB interface {
	AddRequest(context.Context, Request) error
	GetRequest(context.Context, string) (Request, error)
	ListRequests(context.Context, string) ([]Request, error)
	SaveRequest(context.Context, Request) error
	DeleteRequest(context.Context, string) error
	ListMembers(context.Context) ([]TeamMember, error)
	GetMember(context.Context, string) (TeamMember, error)
	UpsertMember(context.Context, TeamMember) error
}

// FileStore keeps uploaded attachments. Save returns the name the file was
// stored under, which is what download requests later reference.
type FileStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Open(storedName string) (io.ReadCloser, error)
}
