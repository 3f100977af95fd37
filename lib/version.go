// Package lib the cookiecat build information
package lib

// Banner the banner
const Banner = `
                 __   .__                      __   
  ____  ____   ____ |  | _|__| ____   ____ _____ _/  |_ 
_/ ___\/  _ \ /  _ \|  |/ /  |/ __ \_/ ___\\__  \\   __\
\  \__(  <_> |  <_> )    <|  \  ___/\  \___ / __ \|  |  
 \___  >____/ \____/|__|_ \__|\___  >\___  >____  /__|  
     \/                  \/       \/     \/     \/      
`

var (
	// Version is the current version.
	Version = "(untracked)"
	// CommitSHA is the commit sha.
	CommitSHA = "(unknown)"
)
