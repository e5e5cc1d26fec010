package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/megachat/megachat/internal/app"
	"github.com/megachat/megachat/internal/conversation"
	"github.com/megachat/megachat/pkg/message"
)

// loginDelay simulates the sign-in round trip.
const loginDelay = 1500 * time.Millisecond

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open a conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			convID, _ := cmd.Flags().GetString("conversation")
			return runChat(cfgPath, convID)
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	cmd.Flags().String("conversation", "", "Conversation ID to open")
	return cmd
}

func runChat(cfgPath, convID string) error {
	name, err := login()
	if err != nil {
		return err
	}

	// The callback needs the app to render messages, but the app needs the
	// callback at construction time. No event fires before New returns.
	var a *app.App
	a, err = app.New(app.Params{
		ConfigPath:     cfgPath,
		ConversationID: convID,
		UserName:       name,
		Notify: func(ev conversation.Event) {
			printEvent(a, ev)
		},
	})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	for _, m := range a.Store.Messages() {
		fmt.Println(render(&m))
	}
	fmt.Println(`Type a message, or /help for commands.`)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			quit, err := runCommand(a, line)
			if err != nil {
				fmt.Println("error:", err)
			}
			if quit {
				return nil
			}
			continue
		}
		if _, err := a.Store.Send(line, nil); err != nil {
			fmt.Println("error:", err)
		}
	}
	return scanner.Err()
}

// login runs the sign-in form and simulates the authentication delay.
func login() (string, error) {
	var name string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Display name").
			Placeholder("You").
			Value(&name),
	))
	if err := form.Run(); err != nil {
		return "", err
	}

	fmt.Println("Signing in...")
	time.Sleep(loginDelay)
	return name, nil
}

// runCommand dispatches a slash command. Returns true when the session
// should end.
func runCommand(a *app.App, line string) (bool, error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		printHelp()
		return false, nil

	case "/list":
		for _, m := range a.Store.View() {
			fmt.Println(render(&m))
		}
		return false, nil

	case "/search":
		a.Store.SetSearchQuery(strings.Join(args, " "))
		for _, m := range a.Store.View() {
			fmt.Println(render(&m))
		}
		return false, nil

	case "/edit":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /edit <id>")
		}
		if err := a.Store.BeginEdit(args[0]); err != nil {
			return false, err
		}
		fmt.Println("editing; next message replaces the text, /cancel aborts")
		return false, nil

	case "/reply":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /reply <id>")
		}
		if err := a.Store.BeginReply(args[0]); err != nil {
			return false, err
		}
		fmt.Println("replying; next message quotes the target, /cancel aborts")
		return false, nil

	case "/cancel":
		a.Store.CancelCompose()
		return false, nil

	case "/delete":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /delete <id>")
		}
		return false, a.Store.Delete(args[0])

	case "/star":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /star <id>")
		}
		return false, a.Store.ToggleStar(args[0])

	case "/pin":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /pin <id>")
		}
		return false, a.Store.TogglePin(args[0])

	case "/react":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: /react <id> <emoji>")
		}
		return false, a.Store.ToggleReaction(args[0], args[1], a.SessionID())

	case "/forward":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /forward <id>")
		}
		_, err := a.Store.Forward(args[0])
		return false, err

	case "/attach":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: /attach <type> <url> [caption]")
		}
		_, err := a.Store.SendAttachment(strings.Join(args[2:], " "), message.Attachment{
			Type: message.AttachmentType(args[0]),
			URL:  args[1],
		})
		return false, err

	case "/temp":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: /temp <seconds> <text>")
		}
		secs, err := strconv.Atoi(args[0])
		if err != nil || secs <= 0 {
			return false, fmt.Errorf("invalid ttl %q", args[0])
		}
		_, err = a.Store.SendTemporary(strings.Join(args[1:], " "), time.Duration(secs)*time.Second)
		return false, err

	case "/group":
		return false, createGroup(a)

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

// createGroup collects a group name and member list and appends the system
// announcement.
func createGroup(a *app.App) error {
	var name, members string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Group name").
			Value(&name),
		huh.NewInput().
			Title("Members (comma separated)").
			Value(&members),
	))
	if err := form.Run(); err != nil {
		return err
	}

	var ids []string
	for _, m := range strings.Split(members, ",") {
		if m = strings.TrimSpace(m); m != "" {
			ids = append(ids, m)
		}
	}
	_, err := a.Store.CreateGroup(name, ids)
	return err
}

// printEvent narrates store changes. Assistant replies arrive
// asynchronously, so appends from other senders are echoed here.
func printEvent(a *app.App, ev conversation.Event) {
	switch ev.Kind {
	case conversation.EventAppend:
		m, err := a.Store.Get(ev.MessageID)
		if err == nil && m.Sender != message.SenderUser {
			fmt.Println(render(&m))
		}
	case conversation.EventResponding:
		if a.Store.Responding() {
			fmt.Println("Mega AI is typing...")
		}
	case conversation.EventDelete:
		fmt.Printf("message %s deleted\n", ev.MessageID)
	}
}

func render(m *message.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", m.ID)
	if m.IsSystem {
		b.WriteString("* " + m.Text)
		return b.String()
	}
	name := m.SenderName
	if name == "" {
		name = string(m.Sender)
	}
	fmt.Fprintf(&b, "%s: %s", name, m.Text)
	if m.ReplyTo != nil {
		fmt.Fprintf(&b, " (replying to %s: %.30s)", m.ReplyTo.SenderName, m.ReplyTo.Text)
	}
	if m.Attachment != nil {
		fmt.Fprintf(&b, " [%s %s]", m.Attachment.Type, m.Attachment.URL)
	}
	var marks []string
	if m.Sender == message.SenderUser && m.Status != "" {
		marks = append(marks, string(m.Status))
	}
	if m.IsEdited {
		marks = append(marks, "edited")
	}
	if m.IsForwarded {
		marks = append(marks, "forwarded")
	}
	if m.IsStarred {
		marks = append(marks, "★")
	}
	if m.IsPinned {
		marks = append(marks, "pinned")
	}
	for symbol, actors := range m.Reactions {
		marks = append(marks, fmt.Sprintf("%s %d", symbol, len(actors)))
	}
	if len(marks) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(marks, ", "))
	}
	return b.String()
}

func printHelp() {
	fmt.Print(`Commands:
  /list                     show the conversation (filtered by /search)
  /search <query>           set the search filter (empty clears it)
  /edit <id>                edit a message; next line is the new text
  /reply <id>               reply to a message; next line is the reply
  /cancel                   leave edit or reply mode
  /delete <id>              delete a message
  /star <id>                toggle star
  /pin <id>                 toggle pin
  /react <id> <emoji>       toggle a reaction
  /forward <id>             forward a message
  /attach <type> <url> [caption]  send an attachment
  /temp <seconds> <text>    send a disappearing message
  /group                    create a group
  /quit                     exit
`)
}
