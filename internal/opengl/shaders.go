package opengl

// meshVertSrc transforms to clip space and hands world-space position,
// normal and tangent frame to the fragment stage. viewNormal feeds the rim
// glow, which is evaluated in view space.
const meshVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;
layout(location = 4) in vec3 inTangent;
layout(location = 5) in vec3 inBitangent;

uniform mat4 mvp;
uniform mat4 model;
uniform mat4 view;

out vec4 fragColor;
out vec3 fragNormal;
out vec2 fragUV;
out vec3 fragWorldPos;
out vec3 fragTangent;
out vec3 fragBitangent;
out vec3 fragViewNormal;

void main() {
    mat3 normalMat = mat3(model);
    gl_Position    = mvp * vec4(inPosition, 1.0);
    fragColor      = inColor;
    fragNormal     = normalMat * inNormal;
    fragUV         = inUV;
    fragWorldPos   = (model * vec4(inPosition, 1.0)).xyz;
    fragTangent    = normalMat * inTangent;
    fragBitangent  = normalMat * inBitangent;
    fragViewNormal = mat3(view) * fragNormal;
}
` + "\x00"

// meshFragSrc shades with Blinn-Phong against up to 8 point lights and one
// optional directional light. shading: 0 = phong, 1 = unlit, 2 = rim glow.
const meshFragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec2 fragUV;
in vec3 fragWorldPos;
in vec3 fragTangent;
in vec3 fragBitangent;
in vec3 fragViewNormal;

out vec4 outColor;

uniform vec3  ambientColor;
uniform vec3  cameraPos;

#define MAX_POINT_LIGHTS 8
uniform int   pointLightCount;
uniform vec3  pointLightPos[MAX_POINT_LIGHTS];
uniform vec3  pointLightColor[MAX_POINT_LIGHTS];
uniform float pointLightIntensity[MAX_POINT_LIGHTS];
uniform float pointLightRange[MAX_POINT_LIGHTS];

uniform int   shading;
uniform vec3  matColor;
uniform float matOpacity;
uniform vec3  matSpecular;
uniform float matShininess;
uniform vec3  matEmissive;
uniform float glowPower;
uniform float glowIntensity;

uniform sampler2D colorTex;    // unit 0
uniform bool      hasColorTex;
uniform sampler2D normalTex;   // unit 1
uniform bool      hasNormalTex;
uniform sampler2D bumpTex;     // unit 2
uniform bool      hasBumpTex;
uniform float     bumpScale;
uniform sampler2D specularTex; // unit 3
uniform bool      hasSpecularTex;

// Screen-space derivative bump mapping; needs no tangents.
vec3 bumpNormal(vec3 N) {
    vec2 dUVdx = dFdx(fragUV);
    vec2 dUVdy = dFdy(fragUV);
    float h  = bumpScale * texture(bumpTex, fragUV).r;
    float dx = bumpScale * texture(bumpTex, fragUV + dUVdx).r - h;
    float dy = bumpScale * texture(bumpTex, fragUV + dUVdy).r - h;

    vec3 sigmaX = dFdx(fragWorldPos);
    vec3 sigmaY = dFdy(fragWorldPos);
    vec3 r1 = cross(sigmaY, N);
    vec3 r2 = cross(N, sigmaX);
    float det = dot(sigmaX, r1) * (gl_FrontFacing ? 1.0 : -1.0);
    vec3 grad = sign(det) * (dx * r1 + dy * r2);
    return normalize(abs(det) * N - grad);
}

vec3 lightContribution(vec3 N, vec3 V, vec3 L, vec3 radiance, vec3 albedo, vec3 spec) {
    float NdL = max(dot(N, L), 0.0);
    vec3 c = radiance * NdL * albedo;
    if (NdL > 0.0) {
        vec3 H = normalize(L + V);
        c += radiance * spec * pow(max(dot(N, H), 0.0), matShininess);
    }
    return c;
}

void main() {
    vec4 base = vec4(matColor, matOpacity) * fragColor;
    if (hasColorTex) {
        base *= texture(colorTex, fragUV);
    }

    if (shading == 1) {
        outColor = vec4(base.rgb + matEmissive, base.a);
        return;
    }

    if (shading == 2) {
        float rim = pow(max(0.7 - dot(normalize(fragViewNormal), vec3(0.0, 0.0, 1.0)), 0.0), glowPower);
        outColor = vec4(matColor * rim * glowIntensity, 1.0);
        return;
    }

    vec3 N = normalize(fragNormal);
    if (!gl_FrontFacing) {
        N = -N;
    }
    if (hasNormalTex) {
        mat3 TBN = mat3(normalize(fragTangent), normalize(fragBitangent), N);
        vec3 tn  = texture(normalTex, fragUV).rgb * 2.0 - 1.0;
        N = normalize(TBN * tn);
    }
    if (hasBumpTex) {
        N = bumpNormal(N);
    }

    vec3 spec = matSpecular;
    if (hasSpecularTex) {
        spec *= texture(specularTex, fragUV).r;
    }

    vec3 V = normalize(cameraPos - fragWorldPos);
    vec3 color = ambientColor * base.rgb;

    for (int i = 0; i < pointLightCount && i < MAX_POINT_LIGHTS; i++) {
        vec3  toLight = pointLightPos[i] - fragWorldPos;
        float atten   = 1.0;
        if (pointLightRange[i] > 0.0) {
            float d = length(toLight) / pointLightRange[i];
            atten = clamp(1.0 - d * d, 0.0, 1.0);
            atten *= atten;
        }
        vec3 radiance = pointLightColor[i] * pointLightIntensity[i] * atten;
        color += lightContribution(N, V, normalize(toLight), radiance, base.rgb, spec);
    }

    outColor = vec4(color + matEmissive, base.a);
}
` + "\x00"

// fullscreenVertSrc draws one oversized triangle from gl_VertexID; no buffers.
const fullscreenVertSrc = `
#version 410 core
out vec2 fragUV;
void main() {
    const vec2 pos[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
    fragUV      = pos[gl_VertexID] * 0.5 + 0.5;
}
` + "\x00"

// backgroundFragSrc stretches an image over the viewport. Image rows are
// stored top-down, so v is flipped.
const backgroundFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D backgroundTex;
uniform float     brightness;

void main() {
    vec3 c = texture(backgroundTex, vec2(fragUV.x, 1.0 - fragUV.y)).rgb;
    outColor = vec4(c * brightness, 1.0);
}
` + "\x00"

// compositeFragSrc adds bloom, applies exposure tone mapping and gamma 2.2.
const compositeFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D hdrBuffer; // unit 0
uniform sampler2D bloomTex;  // unit 1
uniform float     exposure;
uniform float     bloomStrength;
uniform bool      hasBloom;

void main() {
    vec3 hdr = texture(hdrBuffer, fragUV).rgb;
    if (hasBloom) {
        hdr += texture(bloomTex, fragUV).rgb * bloomStrength;
    }
    vec3 mapped = vec3(1.0) - exp(-hdr * exposure);
    outColor = vec4(pow(mapped, vec3(1.0 / 2.2)), 1.0);
}
` + "\x00"

// brightFragSrc keeps pixels whose luminance passes the threshold, with a
// soft knee so the cut-off does not shimmer.
const brightFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D hdrBuffer;
uniform float     threshold;

void main() {
    vec3  color = texture(hdrBuffer, fragUV).rgb;
    float luma  = dot(color, vec3(0.2126, 0.7152, 0.0722));
    float w     = smoothstep(threshold, threshold + 0.1, luma);
    outColor = vec4(color * w, 1.0);
}
` + "\x00"

// blurFragSrc is one axis of a 5-tap Gaussian; texelDir picks the axis.
const blurFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D blurTex;
uniform vec2      texelDir;

void main() {
    const float w[5] = float[](0.0625, 0.25, 0.375, 0.25, 0.0625);
    vec3 result = vec3(0.0);
    for (int i = -2; i <= 2; i++) {
        result += texture(blurTex, fragUV + float(i) * texelDir).rgb * w[i + 2];
    }
    outColor = vec4(result, 1.0);
}
` + "\x00"
