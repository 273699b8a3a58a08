package ui

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	sessionObject   = "session"
	sessionProperty = "panel"
)

// session is what survives a restart: the panel text and the control mode.
type session struct {
	Program string `yaml:"program"`
	Mode    string `yaml:"mode"`
}

// sessionStore persists the session in the per-user data directory. A nil store (or one without a manager) does
// nothing, so the demo keeps working where there is no writable data directory.
type sessionStore struct {
	manager *gdata.Manager
}

// openSessionStore opens the session of the given application, or returns nil if sessions are disabled or the data
// directory is not available.
func openSessionStore(appName string) *sessionStore {
	if appName == "" {
		return nil
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Println("[LightUI] Session disabled:", err)
		return nil
	}
	return &sessionStore{manager: manager}
}

// load returns the saved session, or false if there is none.
func (s *sessionStore) load() (session, bool, error) {
	if s == nil || s.manager == nil || !s.manager.ObjectPropExists(sessionObject, sessionProperty) {
		return session{}, false, nil
	}
	data, err := s.manager.LoadObjectProp(sessionObject, sessionProperty)
	if err != nil {
		return session{}, false, fmt.Errorf("loading session: %w", err)
	}
	var loaded session
	if err = yaml.Unmarshal(data, &loaded); err != nil {
		return session{}, false, fmt.Errorf("decoding session: %w", err)
	}
	return loaded, true, nil
}

func (s *sessionStore) save(sess session) error {
	if s == nil || s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err = s.manager.SaveObjectProp(sessionObject, sessionProperty, data); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// restoreSession fills the panel from OptMProgram or, if not given, from the saved session. Restored programs are not
// executed: the light starts at rest.
func (r *Renderer) restoreSession() {
	if r.program != "" {
		r.panel.text = r.program
		return
	}
	sess, found, err := r.session.load()
	if err != nil {
		log.Println("[LightUI] Ignoring saved session:", err)
		return
	}
	if !found {
		return
	}
	r.panel.text = sess.Program
	r.mode = parseControlMode(sess.Mode)
	log.Println("[LightUI] Restored session (mode:", r.mode.String()+")")
}

func (r *Renderer) saveSession() {
	if err := r.session.save(session{Program: r.panel.text, Mode: r.mode.String()}); err != nil {
		log.Println("[LightUI]", err)
	}
}
