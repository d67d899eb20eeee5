package schema

// FollowersTable represents the 'followers' join table
type FollowersTable struct {
	Table      string
	FollowerID string
	FollowedID string
}

// Followers is the schema definition for followers.
// Both columns are nullable and no (follower, followed) uniqueness exists.
var Followers = FollowersTable{
	Table:      "followers",
	FollowerID: "follower_id",
	FollowedID: "followed_id",
}

// Columns returns all standard column names
func (t FollowersTable) Columns() []string {
	return []string{t.FollowerID, t.FollowedID}
}
