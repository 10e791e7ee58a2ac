package models

// Patch types carry partial updates: nil fields are left unchanged.

type UserPatch struct {
	Name         *string
	Email        *string
	PasswordHash []byte
}

type CoursePatch struct {
	Title       *string
	Description *string
}

type LessonPatch struct {
	Title    *string
	Content  *string
	Order    *int
	VideoURL *string
}
