package main

import (
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
)

// Handler is an interactive modal screen owned by one connection. handle
// blocks until the screen is done, then returns the next screen to push,
// or nil to pop this one.
type Handler interface {
	handle() (Handler, error)
}

// errPop is returned by a command to signal end-of-session for the
// handler currently running (the equivalent of the original EOFError
// sentinel): pop this handler and keep going.
var errPop = fmt.Errorf("pop")

// commandFunc implements one command. args are the whitespace-split
// tokens following the command name. It returns the next handler to push,
// errPop to pop the current handler, or nil to keep reading commands.
type commandFunc func(args []string) (Handler, error)

// command pairs a command's implementation with its one-line help text,
// replacing the original's do_-prefixed method introspection with an
// explicit static registry.
type command struct {
	help string
	fn   commandFunc
}

// commandLoop runs a prompt/read/dispatch loop against a static command
// registry until a command returns a non-nil handler, errPop, or the
// connection errors.
func commandLoop(conn *Conn, prompt string, commands map[string]command) (Handler, error) {
	mute := false
	for {
		var line string
		var err error
		if mute {
			line, err = conn.Input()
		} else {
			line, err = conn.Input(prompt)
		}
		mute = false
		if err != nil {
			return nil, err
		}

		handler, muteNext, err := dispatchCommand(conn, line, commands)
		if err != nil {
			if err == errPop {
				return nil, nil
			}
			return nil, err
		}
		mute = muteNext
		if handler != nil {
			return handler, nil
		}
	}
}

// dispatchCommand tokenises line and runs the matching command.
func dispatchCommand(conn *Conn, line string, commands map[string]command) (Handler, bool, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, false, nil
	}

	name, args := tokens[0], tokens[1:]

	if name == "__json_help__" {
		if err := sendJSONHelp(conn, commands); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}
	if name == "?" {
		name = "help"
	}

	if name == "help" {
		return nil, false, runHelp(conn, args, commands)
	}
	if name == "exit" {
		return nil, false, errPop
	}

	cmd, ok := commands[name]
	if !ok {
		if err := conn.Print("Command not found!"); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	h, err := cmd.fn(args)
	return h, false, err
}

func runHelp(conn *Conn, args []string, commands map[string]command) error {
	if len(args) > 0 {
		name := args[0]
		if name == "?" {
			name = "help"
		}
		if name == "help" {
			return conn.Print("Call help with a command name for more info.")
		}
		cmd, ok := commands[name]
		if !ok {
			return conn.Print("Command not found!")
		}
		return conn.Print(cmd.help)
	}

	names := make([]string, 0, len(commands)+2)
	names = append(names, "help", "exit")
	for n := range commands {
		names = append(names, n)
	}
	if err := conn.Print("Command list:\n    " + strings.Join(names, "\n    ")); err != nil {
		return err
	}
	return conn.Print("Call help with command name for more info.")
}

func sendJSONHelp(conn *Conn, commands map[string]command) error {
	out := make(map[string]string, len(commands)+2)
	out["help"] = "Call help with a command name for more information."
	out["exit"] = "Exit from this area of the server."
	for name, cmd := range commands {
		out[name] = cmd.help
	}
	buf, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return conn.Print(string(buf))
}

// runStack drives the handler stack for one connection: push/pop
// handlers until the stack empties, reporting uncaught errors to the
// client in a bordered block before tearing down.
func runStack(root Handler, conn *Conn) {
	stack := []Handler{root}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		handler, err := runHandlerSafely(top, conn)
		if err != nil {
			reportUnexpectedError(conn, err)
			break
		}

		if handler == nil {
			stack = stack[:len(stack)-1]
		} else {
			stack = append(stack, handler)
		}
	}

	_ = conn.Close()
}

// runHandlerSafely calls handler.handle(), converting a panic (the Go
// analogue of an uncaught exception) into an error so one client's crash
// never takes down the process or any other session.
func runHandlerSafely(h Handler, conn *Conn) (handler Handler, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return h.handle()
}

func reportUnexpectedError(conn *Conn, err error) {
	if conn.IsClosed() {
		return
	}
	border := strings.Repeat("X", 70)
	_ = conn.Print(border)
	_ = conn.Print("Please report this error ASAP!")
	_ = conn.Print(border)
	_ = conn.Print(err.Error())
	_ = conn.Print(border)
	log.Printf("unexpected handler error: %s", err)
}
