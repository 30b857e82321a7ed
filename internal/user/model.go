package user

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CollectionName is the MongoDB collection holding user documents.
const CollectionName = "users"

// User is a document of the users collection.
type User struct {
	ID        bson.ObjectID `json:"_id" bson:"_id,omitempty"`
	FirstName *string       `json:"firstName" bson:"firstName,omitempty"`
	LastName  *string       `json:"lastName" bson:"lastName,omitempty"`
	Email     *string       `json:"email" bson:"email,omitempty"`
	Password  *string       `json:"password" bson:"password,omitempty"` // stored as sent
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Fields are the client-writable attributes of a user.
// A nil pointer means the field was absent from the request.
type Fields struct {
	FirstName *string `json:"firstName" validate:"required"`
	LastName  *string `json:"lastName" validate:"required"`
	Email     *string `json:"email" validate:"required"`
	Password  *string `json:"password" validate:"required"`
}

// IsEmpty reports whether no field was supplied.
func (f Fields) IsEmpty() bool {
	return f.FirstName == nil && f.LastName == nil && f.Email == nil && f.Password == nil
}

// Patch is a partial update: only supplied fields are written, plus UpdatedAt.
type Patch struct {
	Fields
	UpdatedAt time.Time
}

// SetDocument renders the patch as the body of a $set operator.
func (p Patch) SetDocument() bson.D {
	set := bson.D{}
	if p.FirstName != nil {
		set = append(set, bson.E{Key: "firstName", Value: *p.FirstName})
	}
	if p.LastName != nil {
		set = append(set, bson.E{Key: "lastName", Value: *p.LastName})
	}
	if p.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *p.Email})
	}
	if p.Password != nil {
		set = append(set, bson.E{Key: "password", Value: *p.Password})
	}
	return append(set, bson.E{Key: "updatedAt", Value: p.UpdatedAt})
}

// Apply writes the patch onto u.
func (p Patch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = p.FirstName
	}
	if p.LastName != nil {
		u.LastName = p.LastName
	}
	if p.Email != nil {
		u.Email = p.Email
	}
	if p.Password != nil {
		u.Password = p.Password
	}
	u.UpdatedAt = p.UpdatedAt
}

// UpdateResult holds the counters reported by a partial update.
type UpdateResult struct {
	Matched  int64
	Modified int64
}
