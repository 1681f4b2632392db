package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent
// tables in the archive schema
var DatabaseModels = []interface{}{
	&Review{},
	&Stream{},
	&Mark{},
}

// Review is one marking session across a set of video streams
type Review struct {
	gorm.Model
	ReviewID  string       `json:"reviewId" gorm:"size:36;uniqueIndex"`
	Title     string       `json:"title" gorm:"size:200"`
	StartedAt time.Time    `json:"startedAt" gorm:"index:idx_review_started"`
	EndedAt   sql.NullTime `json:"endedAt"`

	Streams []Stream
	Marks   []Mark
}

func (*Review) TableName() string {
	return "reviews"
}

// Stream is one video registered within a review.
// Uses composite primary key (ReviewID, StreamID) - StreamID is the
// session-assigned sequential ID and restarts at 1 for every review.
type Stream struct {
	ReviewID  uint      `json:"reviewId" gorm:"primaryKey;autoIncrement:false"`
	StreamID  uint      `json:"streamId" gorm:"primaryKey;autoIncrement:false"`
	Review    Review    `gorm:"foreignkey:ReviewID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"createdAt"`

	DisplayName   string  `json:"displayName" gorm:"size:255"`
	AspectRatio   float64 `json:"aspectRatio"`
	PlaybackSpeed float64 `json:"playbackSpeed" gorm:"default:1.0"`
}

func (*Stream) TableName() string {
	return "streams"
}

// Mark is one captured frame of interest. The autoincrement primary key
// preserves ledger insertion order across dialects.
type Mark struct {
	gorm.Model
	ReviewID    uint           `json:"reviewId" gorm:"index:idx_mark_review"`
	Review      Review         `gorm:"foreignkey:ReviewID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	StreamID    uint           `json:"streamId"`
	TimeSeconds float64        `json:"timeSeconds"`
	Annotations datatypes.JSON `json:"annotations"`
}

func (*Mark) TableName() string {
	return "marks"
}
