package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/etldl/etldl/auth"
	"github.com/etldl/etldl/color"
	"github.com/etldl/etldl/icon"
	"github.com/etldl/etldl/key"
	"github.com/etldl/etldl/network"
	"github.com/etldl/etldl/portal"
	"github.com/etldl/etldl/style"
	"github.com/etldl/etldl/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().BoolP("delete", "d", false, "Forget the stored password")
	loginCmd.Flags().BoolP("save-username", "s", true, "Write the username to the config file")
}

// loginCmd verifies credentials against the portal and stores them.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the portal and store the password in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		username := viper.GetString(key.AuthUsername)

		if lo.Must(cmd.Flags().GetBool("delete")) {
			if username == "" {
				handleErr(errors.New("username is not set, pass it with --username"))
			}

			err := auth.DeletePassword(username)
			if errors.Is(err, auth.ErrNotFound) {
				err = fmt.Errorf("no password stored for %s", username)
			}
			handleErr(err)

			fmt.Printf("%s deleted the password of %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(username))
			return
		}

		if username == "" {
			handleErr(survey.AskOne(&survey.Input{Message: "Username"}, &username, survey.WithValidator(survey.Required)))
		}

		var password string
		handleErr(survey.AskOne(&survey.Password{Message: "Password"}, &password, survey.WithValidator(survey.Required)))

		opts, err := portal.DefaultOptions()
		handleErr(err)

		ctx, stop := signalContext()
		defer stop()

		erase := util.PrintErasable(fmt.Sprintf("%s Logging in as %s...", icon.Get(icon.Config), username))
		err = portal.New(network.Client, opts).Login(ctx, username, password)
		erase()
		handleErr(err)

		handleErr(auth.SetPassword(username, password))

		if lo.Must(cmd.Flags().GetBool("save-username")) {
			viper.Set(key.AuthUsername, username)
			writeConfig()
		}

		fmt.Printf("%s logged in as %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Purple)(username))
	},
}
