// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// library_cmds.go - CLI surface for favorites, folders, prompts and
// conversation templates.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Sathishnaik786/yvi-chat-assistant/internal/chatapi"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/config"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/library"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/model"
	"github.com/Sathishnaik786/yvi-chat-assistant/internal/session"
)

// =============================================================================
// FAVORITES
// =============================================================================

// HandleFavorites lists and edits bookmarked messages.
//
//	yvi favorites                        list favorites
//	yvi favorites add <session> <n>      bookmark message n (1-based)
//	  --category NAME --note TEXT --tag NAME
//	yvi favorites remove <fav-id>        delete a favorite
func HandleFavorites(args Args, cfg *config.Config) int {
	registry, store, err := openRegistry(cfg)
	if err != nil {
		return fail("open session store: %v", err)
	}
	favs := library.NewFavorites(store)

	switch args.Subcommand {
	case "add":
		if len(args.Raw) < 3 {
			return fail("usage: yvi favorites add <session-id> <message-number>")
		}
		s := registry.Find(args.Raw[1])
		if s == nil {
			return fail("no session %q", args.Raw[1])
		}
		n, err := strconv.Atoi(args.Raw[2])
		if err != nil || n < 1 || n > len(s.Messages) {
			return fail("message number must be 1..%d", len(s.Messages))
		}
		msg := s.Messages[n-1]
		if favs.IsFavorite(msg.ID) {
			return fail("message already favorited")
		}

		fav := library.Favorite{
			MessageID:    msg.ID,
			SessionID:    s.ID,
			SessionTitle: s.Title,
			Content:      msg.Content,
			Role:         msg.Role,
			Category:     args.Options["category"],
			Note:         args.Options["note"],
		}
		if tag := args.Options["tag"]; tag != "" {
			fav.Tags = []string{tag}
		}
		id := favs.Add(fav)
		fmt.Printf("%s favorited as %s\n", okStyle.Render("✓"), id)
		return 0

	case "remove":
		if len(args.Raw) < 2 {
			return fail("usage: yvi favorites remove <fav-id>")
		}
		if !favs.Remove(args.Raw[1]) {
			return fail("no favorite %q", args.Raw[1])
		}
		fmt.Printf("%s removed\n", okStyle.Render("✓"))
		return 0

	case "", "list":
		all := favs.All()
		if len(all) == 0 {
			fmt.Println(dimStyle.Render("no favorites yet — yvi favorites add <session-id> <n>"))
			return 0
		}
		fmt.Println(headStyle.Render("Favorites"))
		for _, fav := range all {
			extra := string(fav.Role)
			if fav.Category != "" {
				extra += "  " + fav.Category
			}
			if len(fav.Tags) > 0 {
				extra += "  #" + strings.Join(fav.Tags, " #")
			}
			fmt.Printf("  %s  %s\n", fav.ID, dimStyle.Render(extra))
			fmt.Printf("    %s\n", snippet(fav.Content, 70))
			if fav.Note != "" {
				fmt.Printf("    %s\n", dimStyle.Render("note: "+fav.Note))
			}
		}
		return 0

	default:
		return fail("unknown favorites subcommand %q", args.Subcommand)
	}
}

// =============================================================================
// FOLDERS AND TAGS
// =============================================================================

// HandleFolders organizes sessions into folders and tags.
//
//	yvi folders                          list folders and tags
//	yvi folders new <name>               create a folder
//	  --parent ID --color HEX
//	yvi folders delete <folder-id>       delete a folder (and children)
//	yvi folders assign <session> <folder>  move a session into a folder
func HandleFolders(args Args, cfg *config.Config) int {
	registry, store, err := openRegistry(cfg)
	if err != nil {
		return fail("open session store: %v", err)
	}
	org := library.NewOrganizer(store)

	switch args.Subcommand {
	case "new":
		if len(args.Raw) < 2 {
			return fail("usage: yvi folders new <name>")
		}
		folder := org.CreateFolder(args.Raw[1], args.Options["parent"], args.Options["color"])
		fmt.Printf("%s created %s (%s)\n", okStyle.Render("✓"), folder.Name, folder.ID)
		return 0

	case "delete":
		if len(args.Raw) < 2 {
			return fail("usage: yvi folders delete <folder-id>")
		}
		if !org.DeleteFolder(args.Raw[1]) {
			return fail("cannot delete folder %q", args.Raw[1])
		}
		fmt.Printf("%s deleted\n", okStyle.Render("✓"))
		return 0

	case "assign":
		if len(args.Raw) < 3 {
			return fail("usage: yvi folders assign <session-id> <folder-id>")
		}
		if registry.Find(args.Raw[1]) == nil {
			return fail("no session %q", args.Raw[1])
		}
		folderID := args.Raw[2]
		found := false
		for _, f := range org.Folders() {
			if f.ID == folderID {
				found = true
				break
			}
		}
		if !found {
			return fail("no folder %q", folderID)
		}
		registry.UpdateSession(args.Raw[1], session.SessionUpdate{FolderID: &folderID})
		fmt.Printf("%s moved\n", okStyle.Render("✓"))
		return 0

	case "", "list":
		fmt.Println(headStyle.Render("Folders"))
		printFolderLevel(org, "", "  ")
		fmt.Println("\n" + headStyle.Render("Tags"))
		for _, tag := range org.Tags() {
			fmt.Printf("  %s  %s\n", tag.ID, dimStyle.Render(tag.Name))
		}
		return 0

	default:
		return fail("unknown folders subcommand %q", args.Subcommand)
	}
}

// printFolderLevel prints folders under parentID, one level of nesting.
func printFolderLevel(org *library.Organizer, parentID, indent string) {
	for _, f := range org.Subfolders(parentID) {
		fmt.Printf("%s%s  %s\n", indent, f.ID, dimStyle.Render(f.Name))
		printFolderLevel(org, f.ID, indent+"  ")
	}
}

// =============================================================================
// PROMPT LIBRARY
// =============================================================================

// HandlePrompts lists, inspects and runs reusable prompts.
//
//	yvi prompts                          list prompts
//	yvi prompts show <id>                print content and variables
//	yvi prompts use <id> --var value ... render and ask the backend
func HandlePrompts(args Args, cfg *config.Config) int {
	_, store, err := openRegistry(cfg)
	if err != nil {
		return fail("open session store: %v", err)
	}
	lib := library.NewPromptLibrary(store)

	switch args.Subcommand {
	case "show":
		if len(args.Raw) < 2 {
			return fail("usage: yvi prompts show <id>")
		}
		prompt, ok := lib.ByID(args.Raw[1])
		if !ok {
			return fail("no prompt %q", args.Raw[1])
		}
		fmt.Println(headStyle.Render(prompt.Title))
		if prompt.Description != "" {
			fmt.Println(dimStyle.Render(prompt.Description))
		}
		fmt.Println("\n" + prompt.Content)
		if len(prompt.Variables) > 0 {
			fmt.Println("\n" + dimStyle.Render("variables: "+strings.Join(prompt.Variables, ", ")))
		}
		return 0

	case "use":
		if len(args.Raw) < 2 {
			return fail("usage: yvi prompts use <id> [--variable value ...]")
		}
		prompt, ok := lib.ByID(args.Raw[1])
		if !ok {
			return fail("no prompt %q", args.Raw[1])
		}

		rendered := library.Render(prompt.Content, args.Options)
		if missing := library.ExtractVariables(rendered); len(missing) > 0 {
			return fail("missing variables: %s (pass --%s ...)",
				strings.Join(missing, ", "), missing[0])
		}

		client := newClient(cfg)
		reply, err := client.Send(context.Background(), &chatapi.Request{
			Message: rendered,
			Settings: &chatapi.Settings{
				Model:       cfg.AI.Model,
				Temperature: cfg.AI.Temperature,
				MaxTokens:   cfg.AI.MaxTokens,
			},
		})
		if err != nil {
			return fail("%v", err)
		}
		lib.IncrementUsage(prompt.ID)

		printRevealed(reply.Text, revealOptions(cfg))
		return 0

	case "", "list":
		fmt.Println(headStyle.Render("Prompt Library"))
		for _, p := range lib.All() {
			marker := " "
			if p.IsFavorite {
				marker = "★"
			}
			fmt.Printf("  %s %-20s %-24s %s\n",
				marker, p.ID, p.Title, dimStyle.Render(p.Category))
		}
		return 0

	default:
		return fail("unknown prompts subcommand %q", args.Subcommand)
	}
}

// =============================================================================
// CONVERSATION TEMPLATES
// =============================================================================

// HandleTemplates lists templates and starts sessions from them.
//
//	yvi templates                        list templates
//	yvi templates use <id>               start a session from a template
func HandleTemplates(args Args, cfg *config.Config) int {
	registry, store, err := openRegistry(cfg)
	if err != nil {
		return fail("open session store: %v", err)
	}
	tpls := library.NewTemplates(store)

	switch args.Subcommand {
	case "use":
		if len(args.Raw) < 2 {
			return fail("usage: yvi templates use <id>")
		}
		s, tpl, ok := startFromTemplate(registry, tpls, args.Raw[1])
		if !ok {
			return fail("no template %q", args.Raw[1])
		}

		fmt.Printf("%s started %q (%s)\n", okStyle.Render("✓"), tpl.Name, s.ID)
		if !args.Quiet {
			fmt.Println(dimStyle.Render("try one of:"))
			for _, starter := range tpl.StarterPrompts {
				fmt.Printf("  %s\n", starter)
			}
		}
		return 0

	case "", "list":
		fmt.Println(headStyle.Render("Conversation Templates"))
		for _, tpl := range tpls.All() {
			fmt.Printf("  %s %-20s %s\n", tpl.Icon, tpl.ID, dimStyle.Render(tpl.Description))
		}
		return 0

	default:
		return fail("unknown templates subcommand %q", args.Subcommand)
	}
}

// startFromTemplate creates a fresh session named after the template.
// The next send against the session picks up the template's settings.
func startFromTemplate(registry *session.Registry, tpls *library.Templates, id string) (*model.ChatSession, library.ConversationTemplate, bool) {
	tpl, ok := tpls.ByID(id)
	if !ok {
		return nil, library.ConversationTemplate{}, false
	}
	s := registry.CreateSession()
	title := tpl.Name
	registry.UpdateSession(s.ID, session.SessionUpdate{Title: &title})
	return registry.Find(s.ID), tpl, true
}

// snippet truncates s to max runes for single-line display.
func snippet(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
