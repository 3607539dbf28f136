package main

import (
	"fmt"
	"strconv"
	"strings"

	"careerpath_portal/models"
	"careerpath_portal/policy"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Add, edit or delete comments on a journey",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <post-id> <text...>",
	Short: "Comment on a journey",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCommentAdd,
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <post-id> <comment-id> <text...>",
	Short: "Edit one of your comments",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runCommentEdit,
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <post-id> <comment-id>",
	Short: "Delete a comment you may delete",
	Args:  cobra.ExactArgs(2),
	RunE:  runCommentDelete,
}

func init() {
	commentCmd.AddCommand(commentAddCmd, commentEditCmd, commentDeleteCmd)
}

func commentID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid comment id %q", arg)
	}
	return id, nil
}

func printComments(cmd *cobra.Command, u *models.User, message string, comments []models.Comment) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", message, dimStyle.Render(plural(len(comments), "comment")))
	for _, c := range comments {
		printComment(out, policy.CommentView(u, c))
	}
}

func runCommentAdd(cmd *cobra.Command, args []string) error {
	id, err := postID(args[0])
	if err != nil {
		return err
	}
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := e.current(ctx)
	if err != nil {
		return err
	}
	page := e.page(s)
	comments, err := page.AddComment(ctx, id, strings.Join(args[1:], " "))
	if err != nil {
		return e.check(ctx, s, err)
	}
	printComments(cmd, page.User(), "Comment posted!", comments)
	return nil
}

func runCommentEdit(cmd *cobra.Command, args []string) error {
	id, err := postID(args[0])
	if err != nil {
		return err
	}
	cid, err := commentID(args[1])
	if err != nil {
		return err
	}
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := e.current(ctx)
	if err != nil {
		return err
	}
	page := e.page(s)
	if err := page.Load(ctx); err != nil {
		return e.check(ctx, s, err)
	}
	comments, err := page.EditComment(ctx, id, cid, strings.Join(args[2:], " "))
	if err != nil {
		return e.check(ctx, s, err)
	}
	printComments(cmd, page.User(), "Comment updated!", comments)
	return nil
}

func runCommentDelete(cmd *cobra.Command, args []string) error {
	id, err := postID(args[0])
	if err != nil {
		return err
	}
	cid, err := commentID(args[1])
	if err != nil {
		return err
	}
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := e.current(ctx)
	if err != nil {
		return err
	}
	page := e.page(s)
	if err := page.Load(ctx); err != nil {
		return e.check(ctx, s, err)
	}
	comments, err := page.DeleteComment(ctx, id, cid)
	if err != nil {
		return e.check(ctx, s, err)
	}
	printComments(cmd, page.User(), "Comment deleted.", comments)
	return nil
}
