// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package script runs Starlark scripts that issue register commands.
//
// Scripts see the following builtins:
//
//	read(addr, count=1)   -> list of register values
//	write(addr, value)    -> None
//	command(text)         -> rendered response of a raw command
//	to_access(addr)       -> access space address of a physical address
//	to_physical(addr)     -> physical address of an access space address
package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/hwrw/command"
	"github.com/ezrec/hwrw/dispatch"
	"github.com/ezrec/hwrw/iomap"
	"github.com/ezrec/hwrw/translate"
)

var f = translate.From

// Commander runs a raw command and returns its rendered response.
type Commander interface {
	Command(ctx context.Context, input string) (response string, err error)
}

// Local runs commands on an in-process dispatcher.
type Local struct {
	Dispatcher *dispatch.Dispatcher
}

var _ Commander = (*Local)(nil)

// Command runs the input and returns its own response, which no
// concurrent command can replace in between.
func (loc *Local) Command(_ context.Context, input string) (response string, err error) {
	status, data := loc.Dispatcher.Execute([]byte(input))
	if !status.Ok() {
		err = status.Err
		return
	}

	response = string(data)
	return
}

// Runner executes scripts against a Commander.
type Runner struct {
	Commander Commander
	Output    io.Writer         // Destination of print(); os.Stdout if nil.
	Defines   map[string]uint32 // Extra predeclared integers.

	ctx context.Context
}

// NewRunner creates a runner for the commander.
func NewRunner(c Commander) (r *Runner) {
	r = &Runner{
		Commander: c,
		Defines:   map[string]uint32{},
	}
	return
}

// Run executes a script. src may be nil (read filename), a string, a []byte
// or an io.Reader. The globals of the finished script are returned.
func (r *Runner) Run(ctx context.Context, filename string, src any) (globals starlark.StringDict, err error) {
	output := r.Output
	if output == nil {
		output = os.Stdout
	}

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(output, msg)
		},
	}

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(ctx.Err().Error())
	})
	defer stop()

	r.ctx = ctx
	defer func() { r.ctx = nil }()

	pred := starlark.StringDict{
		"read":        starlark.NewBuiltin("read", r.read),
		"write":       starlark.NewBuiltin("write", r.write),
		"command":     starlark.NewBuiltin("command", r.command),
		"to_access":   starlark.NewBuiltin("to_access", toAccess),
		"to_physical": starlark.NewBuiltin("to_physical", toPhysical),
	}
	for key, value := range r.Defines {
		pred[key] = starlark.MakeUint64(uint64(value))
	}

	opts := syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
	}
	globals, err = starlark.ExecFileOptions(&opts, thread, filename, src, pred)
	return
}

// uint32Of converts a Starlark integer into a 32-bit register quantity.
func uint32Of(name string, value starlark.Int) (u32 uint32, err error) {
	u64, ok := value.Uint64()
	if !ok || u64 > 0xffffffff {
		err = &ErrArgument{Name: name, Value: value.String()}
		return
	}

	u32 = uint32(u64)
	return
}

func (r *Runner) read(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var st_addr starlark.Int
	st_count := starlark.MakeInt(1)
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "addr", &st_addr, "count?", &st_count)
	if err != nil {
		return
	}

	addr, err := uint32Of("addr", st_addr)
	if err != nil {
		return
	}
	count, err := uint32Of("count", st_count)
	if err != nil {
		return
	}

	response, err := r.Commander.Command(r.ctx, command.Read(count, addr).String())
	if err != nil {
		return
	}

	values, err := ParseRead(response)
	if err != nil {
		return
	}

	if uint32(len(values)) != count {
		err = &ErrShortRead{Address: addr, Count: count, Got: len(values)}
		return
	}

	list := make([]starlark.Value, len(values))
	for n, v := range values {
		list[n] = starlark.MakeUint64(uint64(v))
	}

	value = starlark.NewList(list)
	return
}

func (r *Runner) write(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var st_addr, st_value starlark.Int
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "addr", &st_addr, "value", &st_value)
	if err != nil {
		return
	}

	addr, err := uint32Of("addr", st_addr)
	if err != nil {
		return
	}
	v, err := uint32Of("value", st_value)
	if err != nil {
		return
	}

	_, err = r.Commander.Command(r.ctx, command.Write(addr, v).String())
	if err != nil {
		return
	}

	value = starlark.None
	return
}

func (r *Runner) command(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var text string
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "text", &text)
	if err != nil {
		return
	}

	response, err := r.Commander.Command(r.ctx, text)
	if err != nil {
		return
	}

	value = starlark.String(response)
	return
}

func toAccess(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var st_addr starlark.Int
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "addr", &st_addr)
	if err != nil {
		return
	}

	addr, err := uint32Of("addr", st_addr)
	if err != nil {
		return
	}

	value = starlark.MakeUint64(uint64(iomap.ToAccessSpace(addr)))
	return
}

func toPhysical(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (value starlark.Value, err error) {
	var st_addr starlark.Int
	err = starlark.UnpackArgs(fn.Name(), args, kwargs, "addr", &st_addr)
	if err != nil {
		return
	}

	addr, err := uint32Of("addr", st_addr)
	if err != nil {
		return
	}

	value = starlark.MakeUint64(uint64(iomap.ToPhysical(iomap.Address(addr))))
	return
}

// ParseRead recovers the register values from a rendered read response.
// Both the single value form and the address/value table are accepted.
func ParseRead(response string) (values []uint32, err error) {
	for line := range strings.Lines(response) {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		var value uint64
		value, err = strconv.ParseUint(words[len(words)-1], 10, 32)
		if err != nil {
			err = &ErrResponse{Line: strings.TrimSpace(line), Err: err}
			values = nil
			return
		}
		values = append(values, uint32(value))
	}

	return
}
