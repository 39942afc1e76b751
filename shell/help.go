package shell

import (
	"embed"
	"io"
	"io/fs"
	"strings"
)

//go:embed helptext/*.txt
var helptext embed.FS

const usageFile = "usage"

func usage(w io.Writer) {
	dat, err := helptext.ReadFile("helptext/" + usageFile + ".txt")
	if err != nil {
		io.WriteString(w, "Error loading helptext: "+err.Error())
		return
	}
	w.Write(dat)
}

func usageTopic(w io.Writer, topic string) {
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil || topic == usageFile {
		io.WriteString(w, "There is no help text for the topic "+topic+"\n")
		return
	}
	w.Write(dat)
}

// helpTopics lists the topics help knows about.
func helpTopics() []string {
	entries, err := fs.ReadDir(helptext, "helptext")
	if err != nil {
		return nil
	}
	var topics []string
	for _, e := range entries {
		t := strings.TrimSuffix(e.Name(), ".txt")
		if t != usageFile {
			topics = append(topics, t)
		}
	}
	return topics
}
