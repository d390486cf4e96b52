package models

import "time"

type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	FinderID  string          `json:"finderId"`
	Members   []ProjectMember `json:"members"`
	CreatedAt time.Time       `json:"createdAt"`
}

type ProjectMember struct {
	ProjectID string `json:"-"`
	UserID    string `json:"userId"`
	// Share is a relative weight within the project's execution pool.
	Share int `json:"share"`
}

func (p Project) TotalShare() int {
	total := 0
	for _, m := range p.Members {
		total += m.Share
	}
	return total
}

type ProjectMemberRequest struct {
	UserID string `json:"userId" validate:"required,max=64"`
	Share  int    `json:"share" validate:"gte=0"`
}

type CreateProjectRequest struct {
	Name     string                 `json:"name" validate:"required,max=200"`
	FinderID string                 `json:"finderId" validate:"required,max=64"`
	Members  []ProjectMemberRequest `json:"members" validate:"unique=UserID,dive"`
}

type ReplaceMembersRequest struct {
	Members []ProjectMemberRequest `json:"members" validate:"unique=UserID,dive"`
}

func ToProjectMembers(projectID string, reqs []ProjectMemberRequest) []ProjectMember {
	members := make([]ProjectMember, 0, len(reqs))
	for _, r := range reqs {
		members = append(members, ProjectMember{ProjectID: projectID, UserID: r.UserID, Share: r.Share})
	}
	return members
}
