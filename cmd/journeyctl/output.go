package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"careerpath_portal/filter"
	"careerpath_portal/models"
	"careerpath_portal/policy"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101F38"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
	badgeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2E7D32"))
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func categoryLabel(p models.Post) string {
	if p.CategoryDisplay != "" {
		return p.CategoryDisplay
	}
	return policy.Capitalize(p.Category)
}

func printResults(w io.Writer, posts []models.Post) {
	fmt.Fprintln(w, titleStyle.Render(plural(len(posts), "journey")+" found"))
	if len(posts) == 0 {
		fmt.Fprintln(w, dimStyle.Render("Try a different filter or search term."))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tROLE\tCOMPANY\tCATEGORY\tLIKES\tCOMMENTS")
	for _, p := range posts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\n", p.ID, p.Name, p.Role, p.Company, categoryLabel(p), p.Likes, len(p.Comments))
	}
	tw.Flush()
}

func printPost(w io.Writer, u *models.User, p models.Post) {
	fmt.Fprintln(w, titleStyle.Render(p.Role))
	byline := "by " + p.Name
	if p.Company != "" {
		byline += " at " + p.Company
	}
	fmt.Fprintln(w, byline)
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%s | %s | %s", categoryLabel(p), plural(p.Likes, "like"), plural(len(p.Comments), "comment"))))
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Experience)
	if skills := filter.Skills(p); len(skills) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Skills: "+strings.Join(skills, ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Comments (%d)", len(p.Comments))))
	if len(p.Comments) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No comments yet."))
	}
	for _, c := range p.Comments {
		printComment(w, policy.CommentView(u, c))
	}
	if u == nil {
		fmt.Fprintln(w, dimStyle.Render("Login to join the conversation."))
	}
}

func printComment(w io.Writer, v models.CommentView) {
	var actions []string
	if v.CanEdit {
		actions = append(actions, "edit")
	}
	switch {
	case v.AdminDelete:
		actions = append(actions, "delete (admin)")
	case v.CanDelete:
		actions = append(actions, "delete")
	}
	header := fmt.Sprintf("#%d %s [%s]", v.ID, v.AuthorName, v.AuthorRoleDisplay)
	if v.IsEdited {
		header += " (edited)"
	}
	if len(actions) > 0 {
		header += " " + dimStyle.Render("{"+strings.Join(actions, ", ")+"}")
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "  "+v.Content)
}

func printWhoami(w io.Writer, u *models.User) {
	perms := policy.Permissions(u)
	name := u.Username
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		name = fmt.Sprintf("%s (%s)", full, u.Username)
	}
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render(name), badgeStyle.Render(perms.DisplayRole))
	if u.Email != "" {
		fmt.Fprintln(w, u.Email)
	}
	fmt.Fprintf(w, "can post journeys: %s\n", yesNo(perms.CanPostJourney))
}

func printDashboard(w io.Writer, d *models.DashboardResponse) {
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Welcome back, "+d.User.Username), badgeStyle.Render(d.Permissions.DisplayRole))
	if d.Permissions.CanPostJourney {
		fmt.Fprintf(w, "%s | %s | %s\n", plural(d.Stats.Posts, "journey post"), plural(d.Stats.Comments, "comment"), plural(d.Stats.TotalLikes, "like"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("My journeys"))
		if len(d.Posts) == 0 {
			fmt.Fprintln(w, dimStyle.Render("You have not shared a journey yet."))
		}
		for _, p := range d.Posts {
			fmt.Fprintf(w, "#%d %s (%s) %s, %s\n", p.ID, p.Role, categoryLabel(p), plural(p.Likes, "like"), plural(len(p.Comments), "comment"))
		}
	} else {
		fmt.Fprintln(w, plural(d.Stats.Comments, "comment"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("My comments"))
	if len(d.Comments) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No comments yet."))
	}
	for _, c := range d.Comments {
		on := c.PostTitle
		if on == "" {
			on = "a journey post"
		}
		if c.PostAuthor != "" {
			on += " by " + c.PostAuthor
		}
		fmt.Fprintf(w, "#%d on %s: %s\n", c.ID, on, c.Content)
	}
}
