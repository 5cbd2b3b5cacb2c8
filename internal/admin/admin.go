// Package admin консоль оператора: реестр именованных команд и построчный
// REPL, который их выполняет.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

var ErrUnknownCommand = errors.New("unknown command")

// CommandFunc сигнатура обработчика команды
type CommandFunc func(args []string) (string, error)

// Command одна зарегистрированная команда
type Command struct {
	Name        string
	Description string
	Handler     CommandFunc
}

// Registry потокобезопасный набор команд в порядке регистрации
type Registry struct {
	mu       sync.RWMutex
	commands []Command
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register добавляет команду. Повторная регистрация с тем же именем заменяет
// прежнюю.
func (r *Registry) Register(name, description string, handler CommandFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.commands {
		if c.Name == name {
			r.commands[i] = Command{Name: name, Description: description, Handler: handler}
			return
		}
	}
	r.commands = append(r.commands, Command{Name: name, Description: description, Handler: handler})
}

// Commands возвращает копию списка команд
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

func (r *Registry) Lookup(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Execute разбирает строку и выполняет команду. Пустая строка дает пустой
// результат.
func (r *Registry) Execute(line string) (string, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", nil
	}
	cmd, ok := r.Lookup(parts[0])
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, parts[0])
	}
	return cmd.Handler(parts[1:])
}

// Serve крутит REPL, пока не кончится in или не отменится ctx
func (r *Registry) Serve(ctx context.Context, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		if ctx.Err() != nil {
			return
		}
		res, err := r.Execute(scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprint(out, res)
		if ctx.Err() != nil {
			return
		}
	}
}
