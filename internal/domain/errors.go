package domain

import "errors"

var (
	ErrRootNotFound  = errors.New("root path does not exist")
	ErrUnknownTarget = errors.New("unknown target codec")
	ErrNoVideoStream = errors.New("no video stream found")
	ErrEmptyArtifact = errors.New("encoder produced an empty artifact")
)
