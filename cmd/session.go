package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/etldl/etldl/auth"
	"github.com/etldl/etldl/icon"
	"github.com/etldl/etldl/inline"
	"github.com/etldl/etldl/key"
	"github.com/etldl/etldl/log"
	"github.com/etldl/etldl/network"
	"github.com/etldl/etldl/portal"
	"github.com/etldl/etldl/source"
	"github.com/etldl/etldl/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// session returns a portal logged in with the stored or prompted credentials.
func session(ctx context.Context) *portal.Portal {
	opts, err := portal.DefaultOptions()
	handleErr(err)

	p := portal.New(network.Client, opts)
	username, password := credentials()

	erase := util.PrintErasable(fmt.Sprintf("%s Logging in as %s...", icon.Get(icon.Config), username))
	err = p.Login(ctx, username, password)
	erase()
	handleErr(err)

	return p
}

// credentials reads the username from config or a prompt. The password comes
// from ETLDL_AUTH_PASSWORD, then the keyring, then a prompt.
func credentials() (username, password string) {
	username = viper.GetString(key.AuthUsername)
	if username == "" {
		handleErr(survey.AskOne(&survey.Input{Message: "Username"}, &username, survey.WithValidator(survey.Required)))
	}

	if password = viper.GetString(key.AuthPassword); password != "" {
		return username, password
	}

	password, err := auth.GetPassword(username)
	if err == nil {
		return username, password
	}
	if !errors.Is(err, auth.ErrNotFound) {
		log.Warnf("keyring: %v", err)
	}

	handleErr(survey.AskOne(&survey.Password{Message: "Password"}, &password, survey.WithValidator(survey.Required)))

	var save bool
	handleErr(survey.AskOne(&survey.Confirm{
		Message: "Save the password in the system keyring?",
		Default: true,
	}, &save))

	if save {
		if err = auth.SetPassword(username, password); err != nil {
			log.Warnf("keyring: %v", err)
		}
	}

	return username, password
}

// pickCourse applies the inline picker grammar to description, or asks when it is empty.
func pickCourse(ctx context.Context, p source.Portal, description string) *source.Course {
	if description != "" {
		picker, err := inline.ParseCoursePicker(description)
		handleErr(err)

		course, err := inline.Pick(ctx, p, picker)
		handleErr(err)
		return course
	}

	courses, err := p.Courses(ctx)
	handleErr(err)

	if len(courses) == 0 {
		handleErr(errors.New("no courses found"))
	}

	var index int
	handleErr(survey.AskOne(&survey.Select{
		Message: "Course",
		Options: lo.Map(courses, func(c *source.Course, i int) string {
			return fmt.Sprintf("%d. %s", i+1, c.Title)
		}),
		PageSize: 15,
	}, &index))

	return courses[index]
}
