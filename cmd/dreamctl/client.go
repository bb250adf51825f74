package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
)

// cookieName must match the cookie the service issues.
const cookieName = "dreamdive_session"

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dreamctl_session"
	}
	return filepath.Join(home, ".dreamctl_session")
}

func loadSession() string {
	data, err := os.ReadFile(sessionFlag)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func saveSession(token string) {
	_ = os.WriteFile(sessionFlag, []byte(token), 0o600)
}

func clearSession() {
	_ = os.Remove(sessionFlag)
}

// newRequest builds a request carrying the persisted session cookie, if any.
func newRequest() *resty.Request {
	req := resty.New().SetBaseURL(apiFlag).R()
	if token := loadSession(); token != "" {
		req.SetCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	return req
}

// finish persists a refreshed session cookie and renders the response.
func finish(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			if c.MaxAge < 0 {
				clearSession()
			} else {
				saveSession(c.Value)
			}
		}
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	fmt.Fprintln(os.Stdout, resp.String())
	return nil
}

func doGet(path string) error {
	resp, err := newRequest().Get(path)
	return finish(resp, err)
}

func doPostJSON(path string, payload any) error {
	resp, err := newRequest().SetHeader("Content-Type", "application/json").SetBody(payload).Post(path)
	return finish(resp, err)
}
