package models

import "time"

type Comment struct {
	tableName struct{} `pg:"comments"`

	ID                   int64      `json:"id" pg:",pk"`
	ApplicationID        int64      `json:"application_id" pg:",notnull"`
	AuthorID             int64      `json:"author_id" pg:",notnull"`
	Content              string     `json:"content" pg:",notnull"`
	IsPrivate            bool       `json:"is_private" pg:",notnull,use_zero"`
	IsInformationRequest bool       `json:"is_information_request" pg:",notnull,use_zero"`
	HasResponse          bool       `json:"has_response" pg:",notnull,use_zero"`
	ParentCommentID      *int64     `json:"parent_comment_id,omitempty"`
	IsDeleted            bool       `json:"-" pg:",notnull,use_zero"`
	IsEdited             bool       `json:"is_edited" pg:",notnull,use_zero"`
	CreatedAt            time.Time  `json:"created_at" pg:"default:now()"`
	UpdatedAt            time.Time  `json:"updated_at" pg:"default:now()"`
	DeletedAt            *time.Time `json:"-"`
}

func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
