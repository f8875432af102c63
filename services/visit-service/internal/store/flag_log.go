package store

import "github.com/sunnyfiber/visitops/services/visit-service/internal/model"

// FlagLog is the append-only record of flagged visit issues.
type FlagLog struct {
	flags []model.IssueFlag
}

func NewFlagLog() *FlagLog {
	return &FlagLog{}
}

func (f *FlagLog) Append(flag model.IssueFlag) {
	f.flags = append(f.flags, flag)
}

func (f *FlagLog) Len() int {
	return len(f.flags)
}

func (f *FlagLog) Snapshot() []model.IssueFlag {
	out := make([]model.IssueFlag, len(f.flags))
	copy(out, f.flags)
	return out
}
