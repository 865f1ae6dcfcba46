// SPDX-FileCopyrightText: Copyright (c) 2013-2026, Joyent, Inc. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"fmt"

	"github.com/go-obvious/server"
)

// Rev, Tag, and Time are set at build time via -ldflags.
var (
	Rev  = "unknown"
	Tag  = "dev"
	Time = "unknown"
)

var (
	AuthorName  = "Joyent"
	AuthorEmail = "support@joyent.com"
	Copyright   = "© 2013-2026 Joyent, Inc."
)

func Version() *server.ServerVersion {
	return &server.ServerVersion{Revision: Rev, Tag: Tag, Time: Time}
}

func GetVersion() string {
	return fmt.Sprintf("%s.%s-%s", Rev, Tag, Time)
}
