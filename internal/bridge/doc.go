// Package bridge runs interpreter modules on behalf of the host.
//
// An Anchor hands out one Session at a time. A Session starts the
// configured modules once, routes every script to a single active module
// and captures what the script prints on a normal and an error channel:
//
//	var anchor bridge.Anchor
//	s, err := anchor.Open(cfg, bridge.Services{Env: env, Table: commands.Default()}, factories)
//	if err != nil {
//	    return err
//	}
//	if err := s.Start(); err != nil {
//	    fmt.Print(s.StartupMessage())
//	    return err
//	}
//	defer s.Stop()
//	out, errText, err := s.Execute(script, nil)
//
// Before a module starts, the session looks for a prelude script at
// <install>/<name><tag>.<ext>, where the tag is the configured version
// without dots. A found prelude is handed to the module to run first.
package bridge
