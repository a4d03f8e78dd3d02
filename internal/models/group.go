package models

type CreateGroupRequest struct {
	GroupName         string   `json:"groupName"`
	Names             []string `json:"names"`
	Description       string   `json:"description,omitempty"`
	Admins            []string `json:"admins,omitempty"`
	SetInfoAdminsOnly bool     `json:"setInfoAdminsOnly,omitempty"`
}

func (r CreateGroupRequest) Spec() GroupSpec {
	return GroupSpec{
		Name:             r.GroupName,
		ParticipantNames: r.Names,
		Description:      r.Description,
		AdminNames:       r.Admins,
		AdminsOnlyEdit:   r.SetInfoAdminsOnly,
	}
}

// Intervals are in milliseconds.
type CreateMultipleGroupsRequest struct {
	GroupNames        []string `json:"groupNames"`
	Names             []string `json:"names"`
	MinInterval       int64    `json:"minInterval"`
	MaxInterval       int64    `json:"maxInterval"`
	Description       string   `json:"description,omitempty"`
	Admins            []string `json:"admins,omitempty"`
	SetInfoAdminsOnly bool     `json:"setInfoAdminsOnly,omitempty"`
}

// GroupSpec describes one group to create. Only Name and ParticipantNames
// are required.
type GroupSpec struct {
	Name             string
	ParticipantNames []string
	Description      string
	AdminNames       []string
	PhotoPath        string
	AdminsOnlyEdit   bool
}

// GroupResult reports a group creation. An empty GroupID means the group
// was not created.
type GroupResult struct {
	GroupID string    `json:"groupId"`
	Name    string    `json:"name"`
	Steps   []Outcome `json:"steps"`
}

func (r GroupResult) Created() bool {
	return r.GroupID != ""
}
