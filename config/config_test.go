package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/nutok/nutok/tiles"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	args, err := c.Load([]string{"--config-dir", t.TempDir()})
	is.NoErr(err)
	is.Equal(len(args), 0)

	is.Equal(c.GetInt(ConfigOrder), 6)
	is.Equal(c.GetInt(ConfigPlayers), 2)
	is.Equal(c.GetString(ConfigHistoryPath), "./history")
	is.Equal(c.GetString(ConfigDBPath), "./nutok.db")
	is.Equal(c.GetUint64(ConfigSeed), uint64(0))
	is.Equal(c.GetInt(ConfigPickAttempts), 20)
	is.Equal(c.GetInt(ConfigAutoplayThreads), 4)
	is.True(!c.GetBool(ConfigDebug))
}

func TestFlagsBeatEnvBeatFile(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	is.NoErr(os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("order: 3\nplayers: 4\npick-attempts: 7\n"), 0o644))
	t.Setenv("NUTOK_PLAYERS", "3")
	t.Setenv("NUTOK_PICK_ATTEMPTS", "9")

	c := DefaultConfig()
	args, err := c.Load([]string{"--config-dir", dir, "--pick-attempts", "11", "extra"})
	is.NoErr(err)
	is.Equal(args, []string{"extra"})

	is.Equal(c.GetInt(ConfigOrder), 3)         // file
	is.Equal(c.GetInt(ConfigPlayers), 3)       // env
	is.Equal(c.GetInt(ConfigPickAttempts), 11) // flag
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	_, err := c.Load([]string{"--config-dir", t.TempDir(), "--order", "9"})
	is.True(errors.Is(err, tiles.ErrInvalidOrder))

	c = DefaultConfig()
	_, err = c.Load([]string{"--config-dir", t.TempDir(), "--autoplay-threads", "0"})
	is.True(err != nil)

	c = DefaultConfig()
	_, err = c.Load([]string{"--no-such-flag"})
	is.True(err != nil)
}

func TestSetFromString(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	_, err := c.Load([]string{"--config-dir", t.TempDir()})
	is.NoErr(err)

	is.NoErr(c.SetFromString(ConfigOrder, "4"))
	is.Equal(c.GetInt(ConfigOrder), 4)
	is.NoErr(c.SetFromString(ConfigSeed, "18446744073709551615"))
	is.Equal(c.GetUint64(ConfigSeed), uint64(18446744073709551615))
	is.NoErr(c.SetFromString(ConfigDebug, "true"))
	is.True(c.GetBool(ConfigDebug))

	is.True(errors.Is(c.SetFromString("lexicon", "x"), ErrUnknownKey))
	is.True(c.SetFromString(ConfigOrder, "four") != nil)
	is.True(c.SetFromString(ConfigOrder, "0") != nil)
	is.Equal(c.GetInt(ConfigOrder), 4)
}

func TestWrite(t *testing.T) {
	is := is.New(t)
	dir := filepath.Join(t.TempDir(), "nested")
	c := DefaultConfig()
	_, err := c.Load([]string{"--config-dir", dir})
	is.NoErr(err)
	is.NoErr(c.SetFromString(ConfigOrder, "5"))

	path, err := c.Write()
	is.NoErr(err)
	is.Equal(path, filepath.Join(dir, "config.yaml"))

	c2 := DefaultConfig()
	_, err = c2.Load([]string{"--config-dir", dir})
	is.NoErr(err)
	is.Equal(c2.GetInt(ConfigOrder), 5)
}

func TestKeys(t *testing.T) {
	is := is.New(t)
	keys := Keys()
	is.Equal(len(keys), 10)
	is.Equal(keys[0], ConfigAutoplayGames)
}
