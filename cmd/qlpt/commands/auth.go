package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/qlpt/rental-portal/gateway"
	"github.com/qlpt/rental-portal/internal/errors"
	"github.com/qlpt/rental-portal/session"
	"github.com/qlpt/rental-portal/users"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginPassword string

	registerEmail    string
	registerName     string
	registerRole     string
	registerPassword string
	registerConfirm  string

	whoamiRemote bool
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and keep the session for later commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		password := loginPassword
		if password == "" {
			var err error
			if password, err = newPrompter(cmd).password("Mật khẩu: "); err != nil {
				return err
			}
		}

		user, err := a.session.Login(cmd.Context(), args[0], password)
		if err != nil {
			return errors.Wrapf(err, "%s", session.DisplayMessage(err, session.MsgLoginFailed))
		}
		res, err := a.router.Navigate(session.PathRoot)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s %s (%s)\n", okText("Đăng nhập thành công:"), user.DisplayName(), user.Role)
		fmt.Fprintf(a.out, "Trang chính: %s %s\n", res.Path, dimText("["+res.Title+"]"))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if err := a.session.Logout(cmd.Context()); err != nil {
			// Memory is already cleared; only the stored copy may linger.
			a.log.Warn().Err(err).Msg("stored session could not be removed")
		}
		fmt.Fprintln(a.out, "Đã đăng xuất.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		user, err := a.requireSession()
		if err != nil {
			return err
		}
		if whoamiRemote {
			if user, err = a.api.Me(cmd.Context()); err != nil {
				return err
			}
		}
		return a.printUser(user)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session state and where it lands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		res, err := a.router.Navigate(session.PathRoot)
		if err != nil {
			return err
		}
		status := struct {
			State string `json:"state"`
			Email string `json:"email,omitempty"`
			Role  string `json:"role,omitempty"`
			Home  string `json:"home"`
			Store string `json:"store"`
		}{
			State: a.session.State().String(),
			Home:  res.Path,
			Store: a.cfg.GetStoreKind() + ":" + a.cfg.GetStorePath(),
		}
		if user, ok := a.session.CurrentPrincipal(); ok {
			status.Email, status.Role = user.Email, string(user.Role)
		}
		if outputJSON {
			return writeJSON(a.out, status)
		}
		fmt.Fprintf(a.out, "Trạng thái: %s\n", status.State)
		if status.Email != "" {
			fmt.Fprintf(a.out, "Tài khoản:  %s (%s)\n", status.Email, status.Role)
		}
		fmt.Fprintf(a.out, "Trang chính: %s\n", status.Home)
		fmt.Fprintf(a.out, "Lưu trữ:    %s\n", dimText(status.Store))
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh token for a new access token now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		if _, err := a.requireSession(); err != nil {
			return err
		}
		if err := a.session.Refresh(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(a.out, okText("Đã làm mới phiên đăng nhập."))
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		role, err := users.ParseRole(registerRole)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "%v", err)
		}
		req := gateway.RegisterRequest{
			Email:           strings.TrimSpace(registerEmail),
			FullName:        strings.TrimSpace(registerName),
			Role:            role,
			Password:        registerPassword,
			PasswordConfirm: registerConfirm,
		}
		if req.Password == "" {
			p := newPrompter(cmd)
			if req.Password, err = p.password("Mật khẩu: "); err != nil {
				return err
			}
			if req.PasswordConfirm, err = p.password("Nhập lại mật khẩu: "); err != nil {
				return err
			}
		}
		if err := req.Validate(); err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "%v", err)
		}

		user, err := a.auth.Register(cmd.Context(), req)
		if err != nil {
			return errors.Wrapf(err, "%s", session.DisplayMessage(err, session.MsgRegisterFailed))
		}
		fmt.Fprintln(a.out, okText("Đăng ký thành công. Hãy đăng nhập bằng 'qlpt login "+user.Email+"'."))
		return a.printUser(user)
	},
}

// prompter reads passwords without echo on a terminal and as plain lines
// otherwise, so they can be piped in.
type prompter struct {
	in  io.Reader
	buf *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{in: in, buf: bufio.NewReader(in), out: cmd.ErrOrStderr()}
}

func (p *prompter) password(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.out, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", errors.Wrapf(err, "[prompter.password]")
		}
		return string(b), nil
	}
	line, err := p.buf.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrapf(err, "[prompter.password]")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")

	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerName, "name", "", "full name")
	registerCmd.Flags().StringVar(&registerRole, "role", string(users.RoleTenant), "OWNER, TENANT or TECH")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerConfirm, "password-confirm", "", "password confirmation")

	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "ask the backend instead of the stored session")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, statusCmd, refreshCmd, registerCmd)
}
