package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

const helpText = `Available commands:
  pick <path>        select a file to upload
  auth [phone]       connect and log in
  upload             upload the selected file
  (l)ist | refresh   show upload history, newest first
  status             show session state
  exit | quit        leave the program`

// dispatch runs one command line and reports whether the loop should stop.
// Trigger rejections are reported through status notifications, so their
// errors are ignored here.
func (a *App) dispatch(line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := parts[0]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))

	switch cmd {
	case "help":
		a.println(helpText)

	case "pick":
		if rest == "" {
			a.println("Usage: pick <path>")
			return false
		}
		_ = a.triggers.PickFile(unquote(rest))

	case "auth":
		phone := rest
		if phone == "" {
			phone = a.phone
		}
		if phone == "" && a.triggers.NeedsPhone() {
			a.println("Usage: auth <phone>")
			return false
		}
		if err := a.triggers.Authenticate(phone); err == nil {
			a.authBusy = true
		}

	case "upload":
		_ = a.triggers.StartUpload()

	case "l", "list", "refresh":
		a.triggers.Refresh()

	case "status":
		a.printSnapshot()

	case "exit", "quit":
		return true

	default:
		a.println("Unknown command:", cmd)
	}
	return false
}

// unquote strips one pair of matching quotes, so paths with spaces can be
// pasted as "C:\My Files\a.txt".
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func (a *App) printSnapshot() {
	s := a.triggers.Snapshot()

	selected := s.Selected
	if selected == "" {
		selected = "(none)"
	}
	uploading := "no"
	if s.Uploading {
		uploading = "yes"
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "backend:\t%s\n", s.Backend)
	fmt.Fprintf(w, "state:\t%s\n", s.State)
	fmt.Fprintf(w, "selected:\t%s\n", selected)
	fmt.Fprintf(w, "uploading:\t%s\n", uploading)
	fmt.Fprintf(w, "records:\t%d\n", s.Records)
	_ = w.Flush()
}
