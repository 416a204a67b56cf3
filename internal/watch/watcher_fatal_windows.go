// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// fatalErrnos are the Win32 errors after which ReadDirectoryChangesW can no
// longer deliver do-file events:
//   - ERROR_TOO_MANY_OPEN_FILES (4): handle limit exceeded
//   - ERROR_INVALID_HANDLE (6): watched directory deleted or handle invalidated
//   - ERROR_NOT_ENOUGH_MEMORY (8): cannot allocate the notification buffer
var fatalErrnos = []syscall.Errno{4, 6, 8}
