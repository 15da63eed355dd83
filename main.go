package main

import (
	"context"
	"os"

	"github.com/kovetskiy/deck/util"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
)

const (
	version     = "1.0.0"
	usage       = "A tool for turning markdown files into HTML slide decks."
	description = `Deck compiles markdown files into standalone HTML slide decks. Slides are separated by thematic breaks (---), tuned with front matter and <!-- directive --> comments, and rendered with the markdown options of the .deckrc file found next to each deck.`
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  "deck",
		Usage:                 usage,
		Description:           description,
		Version:               version,
		Flags:                 util.Flags,
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Action:                util.RunDeck,
	}
}

func main() {
	cmd := newCommand()

	if err := cmd.Run(context.TODO(), os.Args); err != nil {
		log.Fatal(err)
	}
}
