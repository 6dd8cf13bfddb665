// Package scenario loads scripted timer scenarios from YAML and plays them
// against a scheduler.
//
// A scenario declares a set of timers and a list of actions to apply to them
// at given points of simulated time:
//
//	name: respawn
//	version: "1.0"
//	frame_interval: 16ms
//	timers:
//	  - name: respawn
//	    duration: 3s
//	    autostart: true
//	  - name: blink
//	    duration: 500ms
//	    loop: true
//	actions:
//	  - at: 1s
//	    timer: blink
//	    op: start
//	  - at: 2s
//	    timer: respawn
//	    op: pause
//	  - at: 2.5s
//	    timer: respawn
//	    op: resume
//	  - at: 4s
//	    timer: blink
//	    op: cancel
//
// The optional version field names the file format; files with a different
// major version are rejected.
//
// An Instance implements the frame loop's Target, so it can be driven in real
// time or stepped through simulated time.
package scenario
