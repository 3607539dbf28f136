package main

import (
	"bufio"
	"fmt"
	"strconv"
	"sync"

	"careerpath_portal/explore"
	"careerpath_portal/filter"
	"careerpath_portal/models"

	"github.com/spf13/cobra"
)

var (
	exploreQuery       string
	exploreCategory    string
	exploreInteractive bool

	postReq models.CreatePostRequest
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "List career journeys, optionally filtered",
	Long: `Lists every career journey that matches --query and --category.

The query is matched case-insensitively against the author, role, company,
experience and skills. The category must match exactly; "all" disables it.

With --interactive each line read from stdin replaces the query. Input is
debounced, so only the last line of a quick burst is searched.`,
	RunE: runExplore,
}

var showCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "Show a journey with its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var likeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a journey",
	Args:  cobra.ExactArgs(1),
	RunE:  runLike,
}

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Share your career journey (alumni and admins)",
	RunE:  runPost,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Your journeys, comments and stats",
	RunE:  runDashboard,
}

func init() {
	exploreCmd.Flags().StringVarP(&exploreQuery, "query", "q", "", "search text")
	exploreCmd.Flags().StringVarP(&exploreCategory, "category", "c", filter.AllCategories, "category slug")
	exploreCmd.Flags().BoolVarP(&exploreInteractive, "interactive", "i", false, "read queries from stdin")
	exploreCmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before an interactive search runs (default $SEARCH_DEBOUNCE)")

	f := postCmd.Flags()
	f.StringVar(&postReq.Name, "name", "", "your name as shown on the post")
	f.StringVar(&postReq.Role, "role", "", "job title")
	f.StringVar(&postReq.Company, "company", "", "company")
	f.StringVar(&postReq.Category, "category", "", "category slug")
	f.StringVar(&postReq.Skills, "skills", "", "comma separated skills")
	f.StringVar(&postReq.Experience, "experience", "", "your journey, 20 to 2000 characters")
}

func postID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", arg)
	}
	return id, nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := e.optional(ctx)
	if err != nil {
		return err
	}
	page := e.page(s)
	if err := page.Load(ctx); err != nil {
		return e.check(ctx, s, err)
	}

	out := cmd.OutOrStdout()
	if !exploreInteractive {
		printResults(out, page.Results(exploreQuery, exploreCategory))
		return nil
	}

	var mu sync.Mutex
	search := func(query string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "\n> %s\n", query)
		printResults(out, page.Results(query, exploreCategory))
	}
	d := explore.NewDebouncer(debounce, search)
	defer d.Stop()

	search(exploreQuery)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		d.Trigger(scanner.Text())
	}
	d.Flush()
	return scanner.Err()
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := postID(args[0])
	if err != nil {
		return err
	}
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := e.optional(ctx)
	if err != nil {
		return err
	}
	page := e.page(s)
	if err := page.Load(ctx); err != nil {
		return e.check(ctx, s, err)
	}
	post, err := page.Post(id)
	if err != nil {
		return err
	}
	printPost(cmd.OutOrStdout(), page.User(), post)
	return nil
}

func runLike(cmd *cobra.Command, args []string) error {
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
	likes, err := e.page(s).Like(ctx, id)
	if err != nil {
		return e.check(ctx, s, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Liked! %s\n", plural(likes, "like"))
	return nil
}

func runPost(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := e.current(ctx)
	if err != nil {
		return err
	}
	req := postReq
	if req.Name == "" && s.User != nil {
		req.Name = displayName(s.User)
	}
	post, err := e.page(s).SubmitJourney(ctx, req)
	if err != nil {
		return e.check(ctx, s, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Journey #%d posted\n", post.ID)
	return nil
}

// displayName prefills the author name from the account.
func displayName(u *models.User) string {
	if u.FirstName != "" || u.LastName != "" {
		name := u.FirstName
		if u.LastName != "" {
			if name != "" {
				name += " "
			}
			name += u.LastName
		}
		return name
	}
	return u.Username
}

func runDashboard(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	s, err := e.current(ctx)
	if err != nil {
		return err
	}
	dash, err := e.page(s).Dashboard(ctx)
	if err != nil {
		return e.check(ctx, s, err)
	}
	printDashboard(cmd.OutOrStdout(), dash)
	return nil
}
