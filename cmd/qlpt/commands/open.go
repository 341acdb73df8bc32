package commands

import (
	"fmt"
	"strings"

	"github.com/qlpt/rental-portal/viewrouter"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Resolve a console path the way the web client would",
	Long: `Resolve a console path against the current session and print the screen
it lands on, following any redirects. Without a path the root is used, which
lands on the home screen of the signed-in role.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}
		res, err := a.router.Navigate(path)
		if err != nil {
			return err
		}
		if outputJSON {
			return writeJSON(a.out, res)
		}
		fmt.Fprintf(a.out, "%s -> %s [%s] %s\n", res.Requested, res.Path, res.Screen, res.Title)
		if res.Redirected() {
			fmt.Fprintln(a.out, dimText("chuyển hướng: "+strings.Join(res.Redirects, " -> ")))
		}
		if res.Screen == viewrouter.ScreenNotFound {
			fmt.Fprintln(a.out, warnText("Không tìm thấy trang."))
		}
		return nil
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the console routes and what each requires",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if outputJSON {
			return writeJSON(a.out, viewrouter.Routes)
		}
		table := newTable(a.out, "Đường dẫn", "Màn hình", "Yêu cầu", "Tiêu đề")
		for _, r := range viewrouter.Routes {
			table.Append([]string{r.Path, string(r.Screen), r.Requires.String(), r.Title})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd, routesCmd)
}
