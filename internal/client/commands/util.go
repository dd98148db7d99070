// FILE: internal/client/commands/util.go
package commands

import (
	"fmt"
	"strings"
	"time"

	"cortex/internal/client/display"
)

func (r *Registry) registerUtilCommands() {
	r.Register(&Command{
		Name:        "health",
		ShortName:   ".",
		Group:       groupUtil,
		Description: "Check server health",
		Usage:       "health",
		Handler:     healthHandler,
	})
	r.Register(&Command{
		Name:        "url",
		ShortName:   "/",
		Group:       groupUtil,
		Description: "Show or set the API base URL",
		Usage:       "url [apiUrl]",
		Handler:     urlHandler,
	})
	r.Register(&Command{
		Name:        "clear",
		ShortName:   "-",
		Group:       groupUtil,
		Description: "Clear screen",
		Usage:       "clear",
		Handler:     clearHandler,
	})
}

func healthHandler(s *Session, args []string) error {
	resp, err := s.Client.Health()
	if err != nil {
		return err
	}

	s.printf("%sServer Health:%s\n", display.Cyan, display.Reset)
	s.printf("  Status:  %s\n", resp.Status)
	s.printf("  Time:    %s\n", time.Unix(resp.Time, 0).Format("2006-01-02 15:04:05"))
	s.printf("  Storage: %s\n", resp.Storage)
	s.printf("  Games:   %d\n", resp.Games)
	return nil
}

func urlHandler(s *Session, args []string) error {
	if len(args) == 0 {
		s.printf("Current API URL: %s\n", s.Client.BaseURL)
		return nil
	}

	url := args[0]
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}
	s.Client.SetBaseURL(url)

	s.printf("%sAPI URL set to: %s%s\n", display.Cyan, s.Client.BaseURL, display.Reset)
	return nil
}

func clearHandler(s *Session, args []string) error {
	_, err := fmt.Fprint(s.Out, "\033[H\033[2J")
	return err
}
