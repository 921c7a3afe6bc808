package bingo

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var ErrUnknownTaskType = crerr.New("unknown task type")

type taskTypeOrdinal int

const (
	ordinalExp taskTypeOrdinal = iota
	ordinalLevel
	ordinalKill
	ordinalScore
	taskTypeCount
)

var taskTypeByOrdinal = [taskTypeCount]TaskType{
	ordinalExp:   TaskTypeExp,
	ordinalLevel: TaskTypeLevel,
	ordinalKill:  TaskTypeKill,
	ordinalScore: TaskTypeScore,
}

// statAccessors selects the StatValue column a task type progresses on.
var statAccessors = [taskTypeCount]func(StatValue) int64{
	ordinalExp:   func(v StatValue) int64 { return v.Exp },
	ordinalLevel: func(v StatValue) int64 { return v.Level },
	ordinalKill:  func(v StatValue) int64 { return v.Kills },
	ordinalScore: func(v StatValue) int64 { return v.Score },
}

func (t TaskType) ordinal() (taskTypeOrdinal, bool) {
	for idx, candidate := range taskTypeByOrdinal {
		if candidate == t {
			return taskTypeOrdinal(idx), true
		}
	}
	return 0, false
}

// ParseTaskType accepts the canonical names case-insensitively.
func ParseTaskType(raw string) (TaskType, error) {
	value := strings.TrimSpace(raw)
	for _, candidate := range taskTypeByOrdinal {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", crerr.Wrapf(ErrUnknownTaskType, "%q", raw)
}

func AllTaskTypes() []TaskType {
	out := make([]TaskType, 0, len(taskTypeByOrdinal))
	out = append(out, taskTypeByOrdinal[:]...)
	return out
}

// Read returns the value of v this task type measures.
func (t TaskType) Read(v StatValue) (int64, error) {
	ord, ok := t.ordinal()
	if !ok {
		return 0, crerr.Wrapf(ErrUnknownTaskType, "%q", string(t))
	}
	return statAccessors[ord](v), nil
}
