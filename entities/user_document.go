package entities

// UserDocument is the relational row used when the aggregate lives in postgres.
type UserDocument struct {
	ID       string `gorm:"type:uuid;primary_key" json:"id"`
	Email    string `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	Version  int64  `gorm:"not null;default:0" json:"version"`
	Document User   `gorm:"type:jsonb;serializer:json;not null" json:"document"`
	Timestamp
}

func (UserDocument) TableName() string {
	return "user_documents"
}
