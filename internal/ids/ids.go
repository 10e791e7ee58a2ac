// Package ids generates the 24-character hexadecimal identifiers used for
// every stored record.
package ids

import (
	"go.mongodb.org/mongo-driver/v2/bson"
)

const Length = 24

func New() string {
	return bson.NewObjectID().Hex()
}

// Valid reports whether s is a well-formed identifier. Upper-case hex is
// accepted, matching what clients may send; Normalize folds it.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	_, err := bson.ObjectIDFromHex(s)
	return err == nil
}

// Normalize returns the canonical lower-case form of a valid identifier.
// Anything else is returned unchanged.
func Normalize(s string) string {
	oid, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return s
	}
	return oid.Hex()
}
