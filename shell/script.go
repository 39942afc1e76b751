package shell

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

const luaShellGlobal = "nutok_shell"

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal(luaShellGlobal)
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand makes a Lua function that runs command with the arguments
// passed as a single string, and returns what the command prints.
func luaCommand(command string) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		cmd, err := extractFields(strings.TrimSpace(command + " " + lv))
		if err != nil {
			log.Err(err).Msg("error-parsing-" + command)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := sc.executeCommand(cmd)
		if err != nil {
			log.Err(err).Msg("error-executing-" + command)
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		if r == nil {
			L.Push(lua.LString(""))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

// State pushes the current game as a table, or nil and an error message.
func State(L *lua.LState) int {
	sc := getShell(L)
	data, err := sc.stateJSON()
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	v, err := luajson.Decode(L, data)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(v)
	return 1
}

var luaCommands = []string{
	"new", "show", "play", "multi", "exchange", "frontier", "score", "end",
	"save", "load", "autoplay", "setconfig", "history", "top",
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal(luaShellGlobal, lsc)
	for _, c := range luaCommands {
		L.SetGlobal("nutok_"+c, L.NewFunction(luaCommand(c)))
	}
	L.SetGlobal("nutok_state", L.NewFunction(State))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
