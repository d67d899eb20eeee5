// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migrations

import (
	"github.com/taibuivan/microblog/internal/platform/database/schema"
	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/revision"
)

// UserTableRevision creates the user table the rest of the chain references.
var UserTableRevision = &revision.Revision{
	ID:        "ad809610edff",
	Parent:    "",
	Message:   "user table",
	CreatedAt: created("2018-05-29 18:02:51.216402"),
	Upgrade: []ddl.Operation{
		ddl.CreateTable{
			Name: schema.User.Table,
			Columns: []ddl.Column{
				{Name: schema.User.ID, Type: ddl.Integer},
				{Name: schema.User.Username, Type: ddl.String, Length: 64, Nullable: true},
				{Name: schema.User.Email, Type: ddl.String, Length: 120, Nullable: true},
				{Name: schema.User.PasswordHash, Type: ddl.String, Length: 128, Nullable: true},
			},
			PrimaryKey: []string{schema.User.ID},
		},
		ddl.CreateIndex{Name: "ix_user_email", Table: schema.User.Table, Columns: []string{schema.User.Email}, Unique: true},
		ddl.CreateIndex{Name: "ix_user_username", Table: schema.User.Table, Columns: []string{schema.User.Username}, Unique: true},
	},
	Downgrade: []ddl.Operation{
		ddl.DropIndex{Name: "ix_user_username", Table: schema.User.Table},
		ddl.DropIndex{Name: "ix_user_email", Table: schema.User.Table},
		ddl.DropTable{Name: schema.User.Table},
	},
}

func init() {
	register(UserTableRevision)
}
