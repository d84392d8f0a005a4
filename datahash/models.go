package datahash

import "github.com/asadbekGo/upgrade-list-sdk/tools/united"

// Snapshot is everything a report or export is built from. Nil and empty lists encode
// the same way so an upstream `[]` and an absent list do not differ.
type Snapshot struct {
	Segment united.Segment       `json:"segment"`
	Cabins  []united.Cabin       `json:"cabins"`
	Front   *united.UpgradeGroup `json:"front,omitempty"`
	Rear    *united.UpgradeGroup `json:"rear,omitempty"`
}

func NewSnapshot(data *united.AvailabilityData) Snapshot {
	snapshot := Snapshot{Cabins: []united.Cabin{}}
	if data == nil {
		return snapshot
	}

	if data.Segment != nil {
		snapshot.Segment = *data.Segment
	}
	snapshot.Cabins = append(snapshot.Cabins, data.Cabins...)
	snapshot.Front = normalizeGroup(data.Front)
	snapshot.Rear = normalizeGroup(data.Rear)

	return snapshot
}

// normalizeGroup keeps the upstream order: a reshuffled standby list is a change.
func normalizeGroup(group *united.UpgradeGroup) *united.UpgradeGroup {
	if group == nil {
		return nil
	}
	return &united.UpgradeGroup{
		Cleared: append([]united.Passenger{}, group.Cleared...),
		Standby: append([]united.Passenger{}, group.Standby...),
	}
}
