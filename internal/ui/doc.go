// Package ui contains the Bubble Tea program that renders the teacher
// workspace. Model focuses on message orchestration; the two controllers it
// drives own all interesting state.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Each message
//     type is routed through a typed handler registry so key presses, window
//     sizes, countdown ticks, auth results and backend events each land in a
//     focused function.
//   - Key presses are dispatched by route: the sidebar layout (home and
//     students) or the full screen sign-in view.
//
// State ownership:
//   - Sidebar visibility lives in a nav.Controller. The model publishes
//     terminal widths into a nav.Feed that the controller observes; the
//     subscription is released by Close.
//   - The sign-in view owns a signin.Flow created when the view mounts and
//     closed when it unmounts. Countdown ticks are tea.Tick commands tagged
//     with the flow generation, so ticks armed for a closed or superseded
//     countdown are dropped.
//   - Code issue and verification run as tea.Cmd values against an
//     auth.Authenticator and report back as messages.
//
// Backend interactions:
//   - An optional backend.Watcher polls the terminal width and the auth
//     backend. Update waits for its events and hands them to
//     applyBackendEvent.
package ui
