// Package scheduler runs background work over asynq: expiring held
// missions and refreshing lead scores. The API process enqueues, the
// worker process consumes.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskMissionHoldSweep = "missions.hold.sweep"

const TaskLeadRescore = "leads.rescore"

type MissionHoldSweepPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

type LeadRescorePayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewMissionHoldSweepTask(payload MissionHoldSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMissionHoldSweep, data), nil
}

func ParseMissionHoldSweepPayload(task *asynq.Task) (MissionHoldSweepPayload, error) {
	var payload MissionHoldSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return MissionHoldSweepPayload{}, err
	}
	return payload, nil
}

func NewLeadRescoreTask(payload LeadRescorePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadRescore, data), nil
}

func ParseLeadRescorePayload(task *asynq.Task) (LeadRescorePayload, error) {
	var payload LeadRescorePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadRescorePayload{}, err
	}
	return payload, nil
}
