// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migrations

import (
	"github.com/taibuivan/microblog/internal/platform/database/schema"
	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/revision"
)

// FollowersRevision creates the followers join table between users.
//
// The columns are nullable and the (follower_id, followed_id) pair is not
// unique. Tightening either would be a separate revision.
var FollowersRevision = &revision.Revision{
	ID:        "84ac4c380789",
	Parent:    "ad809610edff",
	Message:   "followers",
	CreatedAt: created("2018-05-30 11:44:20.668429"),
	Upgrade: []ddl.Operation{
		ddl.CreateTable{
			Name: schema.Followers.Table,
			Columns: []ddl.Column{
				{Name: schema.Followers.FollowerID, Type: ddl.Integer, Nullable: true},
				{Name: schema.Followers.FollowedID, Type: ddl.Integer, Nullable: true},
			},
			ForeignKeys: []ddl.ForeignKey{
				{Columns: []string{schema.Followers.FollowedID}, RefTable: schema.User.Table, RefColumns: []string{schema.User.ID}},
				{Columns: []string{schema.Followers.FollowerID}, RefTable: schema.User.Table, RefColumns: []string{schema.User.ID}},
			},
		},
	},
	Downgrade: []ddl.Operation{
		ddl.DropTable{Name: schema.Followers.Table},
	},
}

func init() {
	register(FollowersRevision)
}
